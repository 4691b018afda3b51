package services

import (
	"context"
	"fmt"

	"github.com/yungbote/skillmatch-backend/internal/clients/openai"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

// Embedder maps entry text to a dense vector. Unlike the classifier this is
// a hard dependency: without an embedding an entry can never be matched, so
// failures propagate to the caller.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type embedder struct {
	log *logger.Logger
	ai  openai.Client
}

func NewEmbedder(baseLog *logger.Logger, ai openai.Client) Embedder {
	return &embedder{log: baseLog.With("service", "Embedder"), ai: ai}
}

func (e *embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.ai.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("embedder: empty embedding")
	}
	return vecs[0], nil
}

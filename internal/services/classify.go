package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/skillmatch-backend/internal/clients/openai"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

// Classification is the triple derived for an entry. Intent follows from
// classification (offer entries offer, everything else seeks).
type Classification struct {
	Classification string
	Specificity    string
	Intent         string
}

// Classifier is best-effort by contract: it never returns an error. Any
// upstream failure or malformed reply degrades to the safe default so
// classification can never block enrichment.
type Classifier interface {
	Classify(ctx context.Context, text string) Classification
}

func FallbackClassification() Classification {
	return Classification{
		Classification: types.ClassificationNeed,
		Specificity:    types.SpecificityOpen,
		Intent:         types.IntentSeek,
	}
}

const classifyPrompt = `Classify this text from a matching app where people post needs and offers.

Pick exactly one classification:
- peer: looking for a peer or companion to do something together
- need: looking for help, a skill or a service
- offer: offering a skill, service or help

Pick exactly one specificity:
- specific: a concrete skill, topic or activity is named
- open: vague or open-ended

Reply with exactly one line in the form classification|specificity and nothing else.

Text: %s`

type classifier struct {
	log *logger.Logger
	ai  openai.Client
}

func NewClassifier(baseLog *logger.Logger, ai openai.Client) Classifier {
	return &classifier{log: baseLog.With("service", "Classifier"), ai: ai}
}

func (c *classifier) Classify(ctx context.Context, text string) Classification {
	reply, err := c.ai.Complete(ctx, fmt.Sprintf(classifyPrompt, text), 10)
	if err != nil {
		c.log.Warn("Classification degraded to defaults", "error", err)
		return FallbackClassification()
	}
	cl, ok := ParseClassification(reply)
	if !ok {
		c.log.Warn("Unparseable classifier reply, using defaults", "reply", reply)
		return FallbackClassification()
	}
	return cl
}

// ParseClassification validates a raw model reply against the strict
// classification|specificity contract. Validation failure is an expected
// branch, reported through ok, never an error.
func ParseClassification(raw string) (Classification, bool) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(raw)), "|")
	if len(parts) != 2 {
		return Classification{}, false
	}
	classification := strings.TrimSpace(parts[0])
	specificity := strings.TrimSpace(parts[1])

	switch classification {
	case types.ClassificationPeer, types.ClassificationNeed, types.ClassificationOffer:
	default:
		return Classification{}, false
	}
	switch specificity {
	case types.SpecificityOpen, types.SpecificitySpecific:
	default:
		return Classification{}, false
	}

	return Classification{
		Classification: classification,
		Specificity:    specificity,
		Intent:         deriveIntent(classification),
	}, true
}

func deriveIntent(classification string) string {
	if classification == types.ClassificationOffer {
		return types.IntentOffer
	}
	return types.IntentSeek
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/skillmatch-backend/internal/clients/openai"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
)

// SkillExtractor pulls short skill tags out of free text. Best-effort like
// the classifier: every failure mode degrades to an empty list.
type SkillExtractor interface {
	Extract(ctx context.Context, text string) []string
}

const skillsPrompt = `Extract up to 3 short skill tags from the following text.
Reply with a JSON array of lowercase strings and nothing else, for example ["guitar","cooking"].
If no skills are mentioned reply with [].

Text: %s`

type skillExtractor struct {
	log *logger.Logger
	ai  openai.Client
}

func NewSkillExtractor(baseLog *logger.Logger, ai openai.Client) SkillExtractor {
	return &skillExtractor{log: baseLog.With("service", "SkillExtractor"), ai: ai}
}

func (s *skillExtractor) Extract(ctx context.Context, text string) []string {
	reply, err := s.ai.Complete(ctx, fmt.Sprintf(skillsPrompt, text), 60)
	if err != nil {
		s.log.Warn("Skill extraction degraded to empty", "error", err)
		return []string{}
	}
	return ParseSkillTags(reply)
}

// ParseSkillTags accepts either a bare JSON array or the common wrapped form
// {"skills": [...]} and normalizes to at most MaxSkillTags non-empty tags.
func ParseSkillTags(raw string) []string {
	raw = strings.TrimSpace(raw)

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		var wrapped struct {
			Skills []string `json:"skills"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return []string{}
		}
		tags = wrapped.Skills
	}

	out := make([]string, 0, types.MaxSkillTags)
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		out = append(out, tag)
		if len(out) == types.MaxSkillTags {
			break
		}
	}
	return out
}

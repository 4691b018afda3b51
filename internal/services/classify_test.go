package services

import (
	"context"
	"fmt"
	"testing"

	types "github.com/yungbote/skillmatch-backend/internal/domain"
)

type fakeAI struct {
	reply      string
	replyErr   error
	embeddings map[string][]float32
	embedErr   error
}

func (f *fakeAI) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f.reply, f.replyErr
}

func (f *fakeAI) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		out[i] = f.embeddings[in]
	}
	return out, nil
}

func TestParseClassification(t *testing.T) {
	cases := []struct {
		raw  string
		want Classification
		ok   bool
	}{
		{"offer|specific", Classification{"offer", "specific", "offer"}, true},
		{"need|open", Classification{"need", "open", "seek"}, true},
		{"peer|specific", Classification{"peer", "specific", "seek"}, true},
		{"  Offer | Specific  ", Classification{"offer", "specific", "offer"}, true},
		{"offer", Classification{}, false},
		{"offer|specific|extra", Classification{}, false},
		{"banana|specific", Classification{}, false},
		{"offer|banana", Classification{}, false},
		{"", Classification{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseClassification(tc.raw)
		if ok != tc.ok {
			t.Errorf("ParseClassification(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseClassification(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestClassifyFallsBackOnError(t *testing.T) {
	c := NewClassifier(testLogger(t), &fakeAI{replyErr: fmt.Errorf("upstream down")})
	got := c.Classify(context.Background(), "ich suche einen gitarrenlehrer")
	if got != FallbackClassification() {
		t.Fatalf("expected fallback classification, got %+v", got)
	}
}

func TestClassifyFallsBackOnGarbageReply(t *testing.T) {
	c := NewClassifier(testLogger(t), &fakeAI{reply: "I think this is probably an offer."})
	got := c.Classify(context.Background(), "biete nachhilfe in mathe an")
	if got != FallbackClassification() {
		t.Fatalf("expected fallback classification, got %+v", got)
	}
}

func TestClassifyParsesReply(t *testing.T) {
	c := NewClassifier(testLogger(t), &fakeAI{reply: "offer|specific"})
	got := c.Classify(context.Background(), "biete nachhilfe in mathe an")
	if got.Intent != types.IntentOffer || got.Classification != types.ClassificationOffer {
		t.Fatalf("unexpected classification %+v", got)
	}
}

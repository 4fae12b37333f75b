package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/fortuna/courtvision/internal/gemini"
	"github.com/fortuna/courtvision/internal/injuries"
	"github.com/fortuna/courtvision/internal/store"
	"github.com/fortuna/courtvision/internal/trends"
)

// maxQuestionLen caps free-text questions before they are stuffed into the
// prompt template.
const maxQuestionLen = 2000

// Service answers dashboard questions by composing the current trend report
// and injury map into a prompt for the hosted model.
type Service struct {
	model    *gemini.Client
	trends   *trends.Service
	injuries *injuries.Service
	archive  *store.SnapshotRepository // nil when archiving is disabled
}

// NewService creates a chat service. archive may be nil.
func NewService(model *gemini.Client, trendSvc *trends.Service, injurySvc *injuries.Service, archive *store.SnapshotRepository) *Service {
	return &Service{
		model:    model,
		trends:   trendSvc,
		injuries: injurySvc,
		archive:  archive,
	}
}

// Ask answers one question. Model failures come back as a reply string the
// chat view shows directly, not as an error.
func (s *Service) Ask(ctx context.Context, sessionID, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return "Ask me about tonight's scoring trends, matchups, or injuries."
	}
	if len(question) > maxQuestionLen {
		question = question[:maxQuestionLen]
	}

	report := s.trends.Report(ctx)
	injuryMap := s.injuries.Report(ctx)
	prompt := gemini.BuildPrompt(report, injuryMap, question)

	answer, err := s.model.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("[chat] model call failed: %v", err)
		return fmt.Sprintf("Sorry, I couldn't reach the model: %v", err)
	}

	if s.archive != nil {
		if err := s.archive.SaveChatMessage(ctx, sessionID, question, answer); err != nil {
			log.Printf("[chat] archive write failed: %v", err)
		}
	}
	return answer
}

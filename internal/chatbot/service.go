// Package chatbot answers visitor questions, preferring the remote text
// generator and falling back to a local FAQ.
package chatbot

import (
	"context"
	"strings"
	"time"

	"github.com/nexusagency/nexus-backend/pkg/logger"
	"github.com/nexusagency/nexus-backend/pkg/textgen"
)

const (
	SourceAI  = "ai"
	SourceFAQ = "faq"

	WelcomeMessage = "Bonjour ! Je suis l'assistant virtuel de Nexus. Comment puis-je vous aider aujourd'hui ?"

	maxMessageLength = 2000
)

var suggestedQuestions = []string{
	"Quels sont vos tarifs ?",
	"Combien de temps pour créer un site ?",
	"Offrez-vous la maintenance ?",
}

var agencyContext = textgen.Context{
	Name:        "Nexus Web Agency",
	Description: "Agence web premium créant des sites vitrines (à partir de 499€), e-commerce (à partir de 999€) et sur-mesure. Délai: 2-6 semaines.",
}

// Generator produces a reply for a conversation.
type Generator interface {
	Generate(ctx context.Context, messages []textgen.Message, chatCtx textgen.Context) (string, error)
}

type replyRecorder interface {
	IncChatbotReply(source string)
}

// Reply is a chatbot answer with the source that produced it.
type Reply struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

// Greeting is shown when the chat opens.
type Greeting struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// Service answers chatbot messages.
type Service struct {
	generator Generator
	timeout   time.Duration
	metrics   replyRecorder
	logg      *logger.Logger
}

// NewService builds a chatbot service. A nil generator answers from the FAQ only.
func NewService(generator Generator, timeout time.Duration, metrics replyRecorder, logg *logger.Logger) *Service {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Service{generator: generator, timeout: timeout, metrics: metrics, logg: logg}
}

func (s *Service) Greeting() Greeting {
	return Greeting{Message: WelcomeMessage, Suggestions: append([]string(nil), suggestedQuestions...)}
}

// Reply answers message. Generator errors, timeouts and empty answers fall
// back to the FAQ; Reply itself never fails.
func (s *Service) Reply(ctx context.Context, message string) Reply {
	message = strings.TrimSpace(message)
	if runes := []rune(message); len(runes) > maxMessageLength {
		message = string(runes[:maxMessageLength])
	}

	if s.generator != nil && message != "" {
		genCtx, cancel := context.WithTimeout(ctx, s.timeout)
		answer, err := s.generator.Generate(genCtx, []textgen.Message{{Role: "user", Content: message}}, agencyContext)
		cancel()
		if err == nil && strings.TrimSpace(answer) != "" {
			s.record(SourceAI)
			return Reply{Message: answer, Source: SourceAI}
		}
		if err != nil && s.logg != nil {
			s.logg.Warn(ctx, "chatbot.generator_failed: "+err.Error())
		}
	}

	answer, _ := MatchFAQ(message)
	s.record(SourceFAQ)
	return Reply{Message: answer, Source: SourceFAQ}
}

func (s *Service) record(source string) {
	if s.metrics != nil {
		s.metrics.IncChatbotReply(source)
	}
}

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"school-advisor/internal/domain"
	"school-advisor/internal/repository"
)

const (
	// contextWindow es la cantidad de mensajes recientes que entran al prompt.
	contextWindow = 10
	// maxContextMessageRunes recorta mensajes largos del historial.
	maxContextMessageRunes = 600
)

var contextRoleLabels = map[string]string{
	domain.MessageRoleUser:    "Student",
	domain.MessageRoleAdvisor: "Advisor",
}

// ContextService arma el historial de una sesion del asesor para el prompt.
type ContextService interface {
	GetContext(ctx context.Context, sessionID string) (string, error)
}

// BasicContextService formatea los ultimos mensajes como "Rol: texto", uno por linea.
type BasicContextService struct {
	messageRepo repository.MessageRepository
}

func NewBasicContextService(messageRepo repository.MessageRepository) *BasicContextService {
	return &BasicContextService{messageRepo: messageRepo}
}

func (s *BasicContextService) GetContext(ctx context.Context, sessionID string) (string, error) {
	if s == nil || s.messageRepo == nil || strings.TrimSpace(sessionID) == "" {
		return "", nil
	}

	messages, err := s.messageRepo.ListRecent(ctx, sessionID, contextWindow)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if len(messages) > contextWindow {
		messages = messages[len(messages)-contextWindow:]
	}

	var sb strings.Builder
	for _, m := range messages {
		content := strings.Join(strings.Fields(m.Content), " ")
		if content == "" {
			continue
		}
		label, ok := contextRoleLabels[strings.ToLower(m.Role)]
		if !ok {
			label = "Student"
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(truncateRunes(content, maxContextMessageRunes))
	}
	return sb.String(), nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}

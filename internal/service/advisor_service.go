package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"school-advisor/internal/domain"
	"school-advisor/internal/llm"
	"school-advisor/internal/repository"
)

var ErrSessionNotFound = errors.New("advisor session not found")

// AdvisorService orquesta el chat con el asesor vocacional y persiste los mensajes.
type AdvisorService struct {
	llmClient      llm.LLMClient
	sessionRepo    repository.SessionRepository
	messageRepo    repository.MessageRepository
	assessmentRepo repository.AssessmentRepository
	contextService ContextService
	timeout        time.Duration
	logger         *zap.Logger
}

func NewAdvisorService(
	llmClient llm.LLMClient,
	sessionRepo repository.SessionRepository,
	messageRepo repository.MessageRepository,
	assessmentRepo repository.AssessmentRepository,
	contextService ContextService,
	timeout time.Duration,
	logger *zap.Logger,
) *AdvisorService {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisorService{
		llmClient:      llmClient,
		sessionRepo:    sessionRepo,
		messageRepo:    messageRepo,
		assessmentRepo: assessmentRepo,
		contextService: contextService,
		timeout:        timeout,
		logger:         logger,
	}
}

func (s *AdvisorService) StartSession(ctx context.Context, userID string) (domain.Session, error) {
	if s == nil || s.sessionRepo == nil {
		return domain.Session{}, ErrServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Session{}, ErrInvalidInput
	}
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Chat guarda el mensaje del usuario, genera la respuesta del asesor con el
// codigo RIASEC y el historial reciente, la persiste y la devuelve.
func (s *AdvisorService) Chat(ctx context.Context, userID, sessionID, userMessage string) (domain.Message, error) {
	if s == nil || s.llmClient == nil || s.sessionRepo == nil || s.messageRepo == nil {
		return domain.Message{}, ErrServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)
	userMessage = strings.TrimSpace(userMessage)
	if userID == "" || sessionID == "" || userMessage == "" {
		return domain.Message{}, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Message{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID {
		return domain.Message{}, ErrSessionNotFound
	}

	// El contexto se lee antes de guardar el mensaje nuevo para no duplicarlo en el prompt.
	contextText := ""
	if s.contextService != nil {
		contextText, err = s.contextService.GetContext(ctx, sessionID)
		if err != nil {
			return domain.Message{}, fmt.Errorf("get context: %w", err)
		}
	}

	var code domain.TraitCode
	if s.assessmentRepo != nil {
		assessment, err := s.assessmentRepo.GetByUserID(ctx, userID)
		switch {
		case err == nil:
			code = assessment.Code
		case errors.Is(err, pgx.ErrNoRows):
		default:
			s.logger.Warn("could not load assessment for advisor prompt", zap.String("user_id", userID), zap.Error(err))
		}
	}

	userMsg := domain.Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: sessionID,
		Content:   userMessage,
		Role:      domain.MessageRoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, userMsg); err != nil {
		return domain.Message{}, fmt.Errorf("persist user message: %w", err)
	}

	raw, err := generateWithTimeout(ctx, s.llmClient, s.timeout, "advisor", buildAdvisorPrompt(code, contextText, userMessage))
	if err != nil {
		s.logger.Error("advisor generation failed", zap.String("session_id", sessionID), zap.Error(err))
		return domain.Message{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	reply := SanitizeAdvisorReply(raw)
	if reply == "" {
		return domain.Message{}, fmt.Errorf("%w: %w", ErrGenerationFailed, llm.ErrEmptyResponse)
	}

	advisorMsg := domain.Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: sessionID,
		Content:   reply,
		Role:      domain.MessageRoleAdvisor,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, advisorMsg); err != nil {
		return domain.Message{}, fmt.Errorf("persist advisor message: %w", err)
	}
	return advisorMsg, nil
}

func buildAdvisorPrompt(code domain.TraitCode, contextText, userMessage string) string {
	var sb strings.Builder

	sb.WriteString("You are a friendly career guidance counselor helping a senior high school student choose a college program.\n")
	sb.WriteString("Keep answers short, concrete and encouraging. Do not invent schools or programs you are unsure about.\n\n")

	sb.WriteString("=== STUDENT PROFILE ===\n")
	if code != "" {
		names := make([]string, 0, 3)
		for _, c := range code.Categories() {
			names = append(names, c.Name())
		}
		sb.WriteString(fmt.Sprintf("Holland (RIASEC) code: %s (%s)\n", code, strings.Join(names, ", ")))
	} else {
		sb.WriteString("The student has not taken the RIASEC assessment yet. Suggest taking it when relevant.\n")
	}

	if strings.TrimSpace(contextText) != "" {
		sb.WriteString("\n=== RECENT CONVERSATION ===\n")
		sb.WriteString(contextText)
		sb.WriteString("\n")
	}

	sb.WriteString("\n=== STUDENT MESSAGE ===\n")
	sb.WriteString(fmt.Sprintf("%q\n\n", userMessage))
	sb.WriteString("Reply as the counselor in plain text.")

	return sb.String()
}

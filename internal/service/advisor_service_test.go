package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"school-advisor/internal/domain"
	"school-advisor/internal/llm"
)

type mockSessionRepo struct {
	sessions map[string]domain.Session
	err      error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]domain.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, session domain.Session) error {
	if m.err != nil {
		return m.err
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (domain.Session, error) {
	if m.err != nil {
		return domain.Session{}, m.err
	}
	s, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, pgx.ErrNoRows
	}
	return s, nil
}

type mockContextService struct {
	context string
	err     error
}

func (m *mockContextService) GetContext(context.Context, string) (string, error) {
	return m.context, m.err
}

func newAdvisorForTest(client llm.LLMClient, sessions *mockSessionRepo, messages *mockMessageRepo, assessments *mockAssessmentRepo) *AdvisorService {
	return NewAdvisorService(client, sessions, messages, assessments, NewBasicContextService(messages), time.Second, zap.NewNop())
}

func TestAdvisorService_ChatPersistsBothMessages(t *testing.T) {
	client := &llm.MockClient{Response: "```\nConsider BS Civil Engineering.\n```"}
	sessions := newMockSessionRepo()
	messages := &mockMessageRepo{}
	assessments := newMockAssessmentRepo()
	assessments.stored["u1"] = domain.Assessment{UserID: "u1", Code: "RIC"}
	svc := newAdvisorForTest(client, sessions, messages, assessments)

	session, err := svc.StartSession(context.Background(), "u1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	reply, err := svc.Chat(context.Background(), "u1", session.ID, "What should I study?")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply.Role != domain.MessageRoleAdvisor || reply.Content != "Consider BS Civil Engineering." {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if len(messages.created) != 2 || messages.created[0].Role != domain.MessageRoleUser {
		t.Fatalf("expected user and advisor messages persisted, got %+v", messages.created)
	}

	prompt := client.LastPrompt()
	if !strings.Contains(prompt, "RIC") || !strings.Contains(prompt, "What should I study?") {
		t.Fatalf("prompt missing profile or message:\n%s", prompt)
	}
}

func TestAdvisorService_ChatIncludesHistory(t *testing.T) {
	client := &llm.MockClient{Response: "Sure."}
	sessions := newMockSessionRepo()
	messages := &mockMessageRepo{}
	svc := newAdvisorForTest(client, sessions, messages, newMockAssessmentRepo())

	session, _ := svc.StartSession(context.Background(), "u1")
	if _, err := svc.Chat(context.Background(), "u1", session.ID, "I like drawing"); err != nil {
		t.Fatalf("first chat: %v", err)
	}
	if _, err := svc.Chat(context.Background(), "u1", session.ID, "And math"); err != nil {
		t.Fatalf("second chat: %v", err)
	}
	prompt := client.LastPrompt()
	if !containsAllInOrder(prompt, []string{"Student: I like drawing", "Advisor: Sure.", "And math"}) {
		t.Fatalf("expected history in prompt, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "has not taken the RIASEC assessment") {
		t.Fatalf("expected missing assessment hint")
	}
}

func TestAdvisorService_SessionOwnership(t *testing.T) {
	sessions := newMockSessionRepo()
	svc := newAdvisorForTest(&llm.MockClient{Response: "hi"}, sessions, &mockMessageRepo{}, newMockAssessmentRepo())

	session, _ := svc.StartSession(context.Background(), "owner")
	if _, err := svc.Chat(context.Background(), "intruder", session.ID, "hello"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for foreign session, got %v", err)
	}
	if _, err := svc.Chat(context.Background(), "owner", "missing", "hello"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for missing session, got %v", err)
	}
}

func TestAdvisorService_Validation(t *testing.T) {
	svc := newAdvisorForTest(&llm.MockClient{}, newMockSessionRepo(), &mockMessageRepo{}, newMockAssessmentRepo())
	if _, err := svc.StartSession(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Chat(context.Background(), "u1", "s1", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var nilSvc *AdvisorService
	if _, err := nilSvc.Chat(context.Background(), "u1", "s1", "hi"); !errors.Is(err, ErrServiceNotConfigured) {
		t.Fatalf("expected ErrServiceNotConfigured, got %v", err)
	}
}

func TestAdvisorService_GenerationFailure(t *testing.T) {
	for name, client := range map[string]*llm.MockClient{
		"error": {Err: llm.ErrUnavailable},
		"empty": {Response: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			sessions := newMockSessionRepo()
			messages := &mockMessageRepo{}
			svc := newAdvisorForTest(client, sessions, messages, newMockAssessmentRepo())
			session, _ := svc.StartSession(context.Background(), "u1")

			if _, err := svc.Chat(context.Background(), "u1", session.ID, "hello"); !errors.Is(err, ErrGenerationFailed) {
				t.Fatalf("expected ErrGenerationFailed, got %v", err)
			}
			if len(messages.created) != 1 {
				t.Fatalf("expected only the user message persisted, got %d", len(messages.created))
			}
		})
	}
}

func TestAdvisorService_ContextFailure(t *testing.T) {
	sessions := newMockSessionRepo()
	messages := &mockMessageRepo{}
	svc := NewAdvisorService(&llm.MockClient{Response: "x"}, sessions, messages, nil,
		&mockContextService{err: errors.New("boom")}, time.Second, zap.NewNop())
	session, _ := svc.StartSession(context.Background(), "u1")

	if _, err := svc.Chat(context.Background(), "u1", session.ID, "hello"); err == nil {
		t.Fatalf("expected context error")
	}
	if len(messages.created) != 0 {
		t.Fatalf("nothing should be persisted when context fails")
	}
}

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
	"school-advisor/internal/repository"
	"school-advisor/internal/riasec"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

// AssessmentService expone el cuestionario RIASEC y guarda el ultimo resultado por usuario.
type AssessmentService struct {
	repo   repository.AssessmentRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewAssessmentService(repo repository.AssessmentRepository, logger *zap.Logger) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Questions devuelve los items fijos del cuestionario.
func (s *AssessmentService) Questions() []domain.SurveyItem {
	return riasec.Items()
}

// Submit valida, puntua y rankea. Con userID vacio el resultado no se guarda.
func (s *AssessmentService) Submit(ctx context.Context, userID string, answers domain.AnswerSet) (domain.Assessment, error) {
	if s == nil {
		return domain.Assessment{}, ErrServiceNotConfigured
	}
	if len(answers) == 0 {
		return domain.Assessment{}, fmt.Errorf("%w: no answers", ErrInvalidInput)
	}
	if err := riasec.Validate(answers); err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	scores := riasec.Score(answers)
	now := s.now()
	assessment := domain.Assessment{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(userID),
		Scores:    scores,
		Code:      riasec.Rank(scores),
		Answered:  len(answers),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if assessment.UserID == "" || s.repo == nil {
		return assessment, nil
	}
	if err := s.repo.Upsert(ctx, assessment); err != nil {
		return domain.Assessment{}, fmt.Errorf("persist assessment: %w", err)
	}
	s.logger.Info("assessment stored",
		zap.String("user_id", assessment.UserID),
		zap.String("trait_code", assessment.Code.String()),
	)
	return assessment, nil
}

func (s *AssessmentService) Latest(ctx context.Context, userID string) (domain.Assessment, error) {
	if s == nil || s.repo == nil {
		return domain.Assessment{}, ErrServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Assessment{}, ErrInvalidInput
	}
	a, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Assessment{}, ErrAssessmentNotFound
	}
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("get assessment: %w", err)
	}
	return a, nil
}

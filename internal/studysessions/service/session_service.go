package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lang-portal/internal/shared/database"
	apperrors "lang-portal/internal/shared/errors"
	"lang-portal/internal/shared/utils"
	"lang-portal/internal/studysessions/models"
	"lang-portal/internal/studysessions/repository"
)

// Response messages
const (
	MsgSessionCreated  = "Study session created successfully"
	MsgReviewRecorded  = "Word review recorded successfully"
	MsgHistoryCleared  = "Study history cleared successfully"
	MsgSessionNotFound = "Study session not found"
	MsgPerPageInvalid  = "per_page must be a positive integer"
	MsgIntegrity       = "Referenced row does not exist"
)

// SessionService handles business logic for study session operations.
type SessionService struct {
	repo repository.StudySessionStore
	now  func() time.Time
}

// Option configures a SessionService.
type Option func(*SessionService)

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *SessionService) {
		s.now = now
	}
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo repository.StudySessionStore, opts ...Option) *SessionService {
	s := &SessionService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListSessions returns one page of session summaries, newest first.
func (s *SessionService) ListSessions(ctx context.Context, page, perPage int) (*models.PaginatedResponse[models.SessionSummary], error) {
	if perPage < 1 {
		return nil, apperrors.ValidationError(MsgPerPageInvalid)
	}

	total, err := s.repo.CountSessions(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListSessions(ctx, perPage, utils.Offset(page, perPage))
	if err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[models.SessionSummary]{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: utils.TotalPages(total, perPage),
	}, nil
}

// CreateSession validates the input and inserts a new session stamped with
// the current UTC time.
func (s *SessionService) CreateSession(ctx context.Context, input *models.SessionCreate) (*models.Session, error) {
	if err := input.Validate(); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	groupID, activityID := *input.GroupID, *input.StudyActivityID

	session, err := s.repo.CreateSession(ctx, groupID, activityID, models.FormatTimestamp(s.now()))
	switch {
	case err == nil:
		slog.InfoContext(ctx, "study session created", "id", session.ID, "group_id", groupID, "study_activity_id", activityID)
		return session, nil
	case errors.Is(err, repository.ErrGroupNotFound):
		s.logExistingGroups(ctx)
		return nil, apperrors.ReferenceError(fmt.Sprintf("Group with id %d does not exist", groupID))
	case errors.Is(err, repository.ErrStudyActivityNotFound):
		s.logExistingActivities(ctx)
		return nil, apperrors.ReferenceError(fmt.Sprintf("Study activity with id %d does not exist", activityID))
	case database.IsConstraintViolation(err):
		slog.WarnContext(ctx, "study session insert violated a constraint", "error", err)
		return nil, apperrors.IntegrityError(MsgIntegrity)
	default:
		return nil, err
	}
}

// GetSession returns a session summary with one page of its reviewed words.
func (s *SessionService) GetSession(ctx context.Context, id int64, page, perPage int) (*models.SessionDetailResponse, error) {
	if perPage < 1 {
		return nil, apperrors.ValidationError(MsgPerPageInvalid)
	}

	summary, err := s.repo.GetSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, apperrors.NotFoundError(MsgSessionNotFound)
	}

	total, err := s.repo.CountSessionWords(ctx, id)
	if err != nil {
		return nil, err
	}

	words, err := s.repo.ListSessionWords(ctx, id, perPage, utils.Offset(page, perPage))
	if err != nil {
		return nil, err
	}

	return &models.SessionDetailResponse{
		Session:    *summary,
		Words:      words,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: utils.TotalPages(total, perPage),
	}, nil
}

// CreateReview records a correct or wrong answer for a word in a session.
func (s *SessionService) CreateReview(ctx context.Context, sessionID int64, input *models.ReviewCreate) (*models.ReviewItem, error) {
	if err := input.Validate(); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}
	wordID := *input.WordID

	item, err := s.repo.CreateReview(ctx, sessionID, wordID, *input.Correct, models.FormatTimestamp(s.now()))
	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, repository.ErrSessionNotFound):
		return nil, apperrors.NotFoundError(MsgSessionNotFound)
	case errors.Is(err, repository.ErrWordNotFound):
		return nil, apperrors.ReferenceError(fmt.Sprintf("Word with id %d does not exist", wordID))
	case database.IsConstraintViolation(err):
		slog.WarnContext(ctx, "word review insert violated a constraint", "error", err)
		return nil, apperrors.IntegrityError(MsgIntegrity)
	default:
		return nil, err
	}
}

// ResetSessions deletes all review items and sessions.
func (s *SessionService) ResetSessions(ctx context.Context) (*repository.ResetResult, error) {
	res, err := s.repo.Reset(ctx)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "study history cleared",
		"review_items_deleted", res.ReviewItemsDeleted,
		"sessions_deleted", res.SessionsDeleted,
	)
	return res, nil
}

func (s *SessionService) logExistingGroups(ctx context.Context) {
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		slog.DebugContext(ctx, "failed to list groups", "error", err)
		return
	}
	slog.DebugContext(ctx, "available groups", "groups", groups)
}

func (s *SessionService) logExistingActivities(ctx context.Context) {
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}
	activities, err := s.repo.ListStudyActivities(ctx)
	if err != nil {
		slog.DebugContext(ctx, "failed to list study activities", "error", err)
		return
	}
	slog.DebugContext(ctx, "available study activities", "study_activities", activities)
}

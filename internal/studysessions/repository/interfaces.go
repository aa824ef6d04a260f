package repository

import (
	"context"

	"lang-portal/internal/studysessions/models"
)

// StudySessionStore defines the store operations the study session service relies on.
type StudySessionStore interface {
	CountSessions(ctx context.Context) (int64, error)
	ListSessions(ctx context.Context, limit, offset int) ([]models.SessionSummary, error)
	GetSummary(ctx context.Context, id int64) (*models.SessionSummary, error)
	CountSessionWords(ctx context.Context, sessionID int64) (int64, error)
	ListSessionWords(ctx context.Context, sessionID int64, limit, offset int) ([]models.SessionWord, error)
	CreateSession(ctx context.Context, groupID, activityID int64, createdAt string) (*models.Session, error)
	CreateReview(ctx context.Context, sessionID, wordID int64, correct bool, createdAt string) (*models.ReviewItem, error)
	Reset(ctx context.Context) (*ResetResult, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListStudyActivities(ctx context.Context) ([]models.StudyActivity, error)
}

var _ StudySessionStore = (*SessionRepository)(nil)

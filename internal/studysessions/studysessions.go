// Package studysessions wires the study session repository and service
// behind a single import for the app and handler packages.
package studysessions

import (
	"lang-portal/internal/shared/database"
	"lang-portal/internal/studysessions/repository"
	"lang-portal/internal/studysessions/service"
)

// NewSessionRepository creates a repository backed by db.
func NewSessionRepository(db *database.DB) *repository.SessionRepository {
	return repository.NewSessionRepository(db)
}

// NewSessionService creates a service over the given store.
func NewSessionService(repo repository.StudySessionStore, opts ...service.Option) *service.SessionService {
	return service.NewSessionService(repo, opts...)
}

// Re-export types commonly referenced by handlers.
type SessionRepository = repository.SessionRepository
type SessionService = service.SessionService
type ResetResult = repository.ResetResult

// WithClock re-exports service.WithClock.
var WithClock = service.WithClock

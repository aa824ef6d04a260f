// Package models defines the data structures exchanged by the study sessions API.
package models

import (
	"errors"
	"time"
)

// TimestampLayout is the fixed-width UTC ISO-8601 layout used for created_at.
// Fixed width keeps lexical order equal to chronological order in the store.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Validation errors
var (
	ErrMissingSessionFields = errors.New("Missing required fields. Need group_id and study_activity_id")
	ErrMissingReviewFields  = errors.New("Missing required fields. Need word_id and correct")
)

// SessionCreate represents the input for creating a study session.
// Pointers distinguish absent (or null) fields from zero ids.
type SessionCreate struct {
	GroupID         *int64 `json:"group_id"`
	StudyActivityID *int64 `json:"study_activity_id"`
}

// Validate checks that both required fields are present.
func (s *SessionCreate) Validate() error {
	if s.GroupID == nil || s.StudyActivityID == nil {
		return ErrMissingSessionFields
	}
	return nil
}

// ReviewCreate represents the input for recording a word review in a session.
type ReviewCreate struct {
	WordID  *int64 `json:"word_id"`
	Correct *bool  `json:"correct"`
}

// Validate checks that both required fields are present.
func (r *ReviewCreate) Validate() error {
	if r.WordID == nil || r.Correct == nil {
		return ErrMissingReviewFields
	}
	return nil
}

// Session is a persisted study session row.
type Session struct {
	ID              int64  `json:"id"`
	GroupID         int64  `json:"group_id"`
	StudyActivityID int64  `json:"study_activity_id"`
	CreatedAt       string `json:"created_at"`
}

// SessionSummary is a session joined with its group and activity names.
// StartTime and EndTime both carry created_at; duration is not tracked.
type SessionSummary struct {
	ID               int64  `json:"id"`
	GroupID          int64  `json:"group_id"`
	GroupName        string `json:"group_name"`
	ActivityID       int64  `json:"activity_id"`
	ActivityName     string `json:"activity_name"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	ReviewItemsCount int64  `json:"review_items_count"`
}

// SessionWord is a word reviewed in a session with session-scoped tallies.
type SessionWord struct {
	ID           int64  `json:"id"`
	Kanji        string `json:"kanji"`
	Romaji       string `json:"romaji"`
	English      string `json:"english"`
	CorrectCount int64  `json:"correct_count"`
	WrongCount   int64  `json:"wrong_count"`
}

// ReviewItem is a single correct/incorrect judgment of a word within a session.
type ReviewItem struct {
	ID             int64  `json:"id"`
	StudySessionID int64  `json:"study_session_id"`
	WordID         int64  `json:"word_id"`
	Correct        bool   `json:"correct"`
	CreatedAt      string `json:"created_at"`
}

// Group is a learner group referenced by sessions.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StudyActivity is an activity referenced by sessions.
type StudyActivity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PaginatedResponse wraps a window of items with pagination metadata.
type PaginatedResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// SessionDetailResponse is a session summary plus a page of its reviewed words.
type SessionDetailResponse struct {
	Session    SessionSummary `json:"session"`
	Words      []SessionWord  `json:"words"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
}

// CreateSessionResponse is returned after a session is created.
type CreateSessionResponse struct {
	Message string   `json:"message"`
	Session *Session `json:"session"`
}

// CreateReviewResponse is returned after a review item is recorded.
type CreateReviewResponse struct {
	Message    string      `json:"message"`
	ReviewItem *ReviewItem `json:"review_item"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// FormatTimestamp formats t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

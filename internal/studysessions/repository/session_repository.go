package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lang-portal/internal/shared/database"
	"lang-portal/internal/studysessions/models"
)

// Lookup errors returned by the transactional writes.
var (
	ErrGroupNotFound         = errors.New("group not found")
	ErrStudyActivityNotFound = errors.New("study activity not found")
	ErrSessionNotFound       = errors.New("study session not found")
	ErrWordNotFound          = errors.New("word not found")
)

// ResetResult reports how many rows a reset removed.
type ResetResult struct {
	ReviewItemsDeleted int64
	SessionsDeleted    int64
}

const summarySelect = `
	SELECT
		ss.id,
		ss.group_id,
		g.name,
		sa.id,
		sa.name,
		ss.created_at,
		COUNT(wri.id)
	FROM study_sessions ss
	JOIN groups g ON g.id = ss.group_id
	JOIN study_activities sa ON sa.id = ss.study_activity_id
	LEFT JOIN word_review_items wri ON wri.study_session_id = ss.id`

// SessionRepository handles database operations for study sessions.
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CountSessions returns the number of sessions whose group and activity exist.
func (r *SessionRepository) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM study_sessions ss
		JOIN groups g ON g.id = ss.group_id
		JOIN study_activities sa ON sa.id = ss.study_activity_id`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count study sessions: %w", err)
	}
	return count, nil
}

// ListSessions returns a window of session summaries, newest first.
func (r *SessionRepository) ListSessions(ctx context.Context, limit, offset int) ([]models.SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx, summarySelect+`
		GROUP BY ss.id
		ORDER BY ss.created_at DESC, ss.id DESC
		LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query study sessions: %w", err)
	}
	defer rows.Close()

	out := []models.SessionSummary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("study sessions rows error: %w", err)
	}
	return out, nil
}

// GetSummary returns one session summary, or nil if the session does not exist.
func (r *SessionRepository) GetSummary(ctx context.Context, id int64) (*models.SessionSummary, error) {
	row := r.db.QueryRowContext(ctx, summarySelect+`
		WHERE ss.id = ?
		GROUP BY ss.id`,
		id,
	)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (*models.SessionSummary, error) {
	var s models.SessionSummary
	var createdAt string
	err := row.Scan(&s.ID, &s.GroupID, &s.GroupName, &s.ActivityID, &s.ActivityName, &createdAt, &s.ReviewItemsCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan study session: %w", err)
	}
	s.StartTime = createdAt
	s.EndTime = createdAt
	return &s, nil
}

// CountSessionWords returns the number of distinct words reviewed in a session.
func (r *SessionRepository) CountSessionWords(ctx context.Context, sessionID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT w.id)
		FROM words w
		JOIN word_review_items wri ON wri.word_id = w.id
		WHERE wri.study_session_id = ?`,
		sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count session words: %w", err)
	}
	return count, nil
}

// ListSessionWords returns a window of the words reviewed in a session with
// their correct and wrong tallies for that session, ordered by kanji.
func (r *SessionRepository) ListSessionWords(ctx context.Context, sessionID int64, limit, offset int) ([]models.SessionWord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			w.id,
			w.kanji,
			w.romaji,
			w.english,
			COALESCE(SUM(CASE WHEN wri.correct = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN wri.correct = 0 THEN 1 ELSE 0 END), 0)
		FROM words w
		JOIN word_review_items wri ON wri.word_id = w.id
		WHERE wri.study_session_id = ?
		GROUP BY w.id
		ORDER BY w.kanji ASC, w.id ASC
		LIMIT ? OFFSET ?`,
		sessionID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query session words: %w", err)
	}
	defer rows.Close()

	out := []models.SessionWord{}
	for rows.Next() {
		var w models.SessionWord
		if err := rows.Scan(&w.ID, &w.Kanji, &w.Romaji, &w.English, &w.CorrectCount, &w.WrongCount); err != nil {
			return nil, fmt.Errorf("failed to scan session word: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session words rows error: %w", err)
	}
	return out, nil
}

// CreateSession checks that the group and activity exist and inserts the
// session, all in one transaction.
func (r *SessionRepository) CreateSession(ctx context.Context, groupID, activityID int64, createdAt string) (*models.Session, error) {
	session := &models.Session{
		GroupID:         groupID,
		StudyActivityID: activityID,
		CreatedAt:       createdAt,
	}

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "SELECT 1 FROM groups WHERE id = ?", groupID)
		if err != nil {
			return fmt.Errorf("failed to look up group: %w", err)
		}
		if !ok {
			return ErrGroupNotFound
		}

		ok, err = exists(ctx, tx, "SELECT 1 FROM study_activities WHERE id = ?", activityID)
		if err != nil {
			return fmt.Errorf("failed to look up study activity: %w", err)
		}
		if !ok {
			return ErrStudyActivityNotFound
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO study_sessions (group_id, study_activity_id, created_at) VALUES (?, ?, ?)`,
			groupID, activityID, createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert study session: %w", err)
		}

		session.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// CreateReview records a word review for an existing session.
func (r *SessionRepository) CreateReview(ctx context.Context, sessionID, wordID int64, correct bool, createdAt string) (*models.ReviewItem, error) {
	item := &models.ReviewItem{
		StudySessionID: sessionID,
		WordID:         wordID,
		Correct:        correct,
		CreatedAt:      createdAt,
	}

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "SELECT 1 FROM study_sessions WHERE id = ?", sessionID)
		if err != nil {
			return fmt.Errorf("failed to look up study session: %w", err)
		}
		if !ok {
			return ErrSessionNotFound
		}

		ok, err = exists(ctx, tx, "SELECT 1 FROM words WHERE id = ?", wordID)
		if err != nil {
			return fmt.Errorf("failed to look up word: %w", err)
		}
		if !ok {
			return ErrWordNotFound
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO word_review_items (word_id, study_session_id, correct, created_at) VALUES (?, ?, ?, ?)`,
			wordID, sessionID, correct, createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert word review item: %w", err)
		}

		item.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Reset deletes all review items and then all sessions in one transaction.
func (r *SessionRepository) Reset(ctx context.Context) (*ResetResult, error) {
	result := &ResetResult{}

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM word_review_items")
		if err != nil {
			return fmt.Errorf("failed to delete word review items: %w", err)
		}
		if result.ReviewItemsDeleted, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		res, err = tx.ExecContext(ctx, "DELETE FROM study_sessions")
		if err != nil {
			return fmt.Errorf("failed to delete study sessions: %w", err)
		}
		if result.SessionsDeleted, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListGroups returns every group ordered by id.
func (r *SessionRepository) ListGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	out := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("groups rows error: %w", err)
	}
	return out, nil
}

// ListStudyActivities returns every study activity ordered by id.
func (r *SessionRepository) ListStudyActivities(ctx context.Context) ([]models.StudyActivity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM study_activities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query study activities: %w", err)
	}
	defer rows.Close()

	out := []models.StudyActivity{}
	for rows.Next() {
		var a models.StudyActivity
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan study activity: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("study activities rows error: %w", err)
	}
	return out, nil
}

func exists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

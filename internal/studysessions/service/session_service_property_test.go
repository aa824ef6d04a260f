package service

import (
	"context"
	"errors"
	"testing"

	"pgregory.net/rapid"

	apperrors "lang-portal/internal/shared/errors"
	"lang-portal/internal/studysessions/models"
	"lang-portal/internal/studysessions/repository"
)

// Property: a created session reads back with the same group and activity.
func TestSessionService_Property_CreateThenGet(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	rapid.Check(t, func(t *rapid.T) {
		session, err := svc.CreateSession(ctx, &models.SessionCreate{
			GroupID:         int64Ptr(1),
			StudyActivityID: int64Ptr(1),
		})
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		detail, err := svc.GetSession(ctx, session.ID, 1, rapid.IntRange(1, 50).Draw(t, "perPage"))
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if detail.Session.ID != session.ID ||
			detail.Session.GroupID != session.GroupID ||
			detail.Session.ActivityID != session.StudyActivityID {
			t.Fatalf("summary %+v does not match created %+v", detail.Session, session)
		}
		if detail.Session.GroupName != "Kana" || detail.Session.ActivityName != "Flashcards" {
			t.Fatalf("unexpected names %+v", detail.Session)
		}
	})
}

// Property: an unknown group id is always a reference error and never inserts.
func TestSessionService_Property_UnknownGroupNeverInserts(t *testing.T) {
	svc, db, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewSessionRepository(db)

	before, err := repo.CountSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}

	rapid.Check(t, func(t *rapid.T) {
		groupID := rapid.Int64Range(2, 1<<40).Draw(t, "groupID")
		activityID := rapid.Int64Range(-5, 5).Draw(t, "activityID")

		_, err := svc.CreateSession(ctx, &models.SessionCreate{GroupID: &groupID, StudyActivityID: &activityID})
		var apiErr *apperrors.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != apperrors.CodeReference {
			t.Fatalf("expected reference error, got %v", err)
		}

		after, err := repo.CountSessions(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if after != before {
			t.Fatalf("session count changed from %d to %d", before, after)
		}
	})
}

// Property: reset is idempotent and always leaves zero sessions.
func TestSessionService_Property_ResetIdempotent(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 5).Draw(t, "sessions")
		for i := 0; i < n; i++ {
			s, err := svc.CreateSession(ctx, &models.SessionCreate{GroupID: int64Ptr(1), StudyActivityID: int64Ptr(1)})
			if err != nil {
				t.Fatal(err)
			}
			correct := rapid.Bool().Draw(t, "correct")
			if _, err := svc.CreateReview(ctx, s.ID, &models.ReviewCreate{WordID: int64Ptr(1), Correct: &correct}); err != nil {
				t.Fatal(err)
			}
		}

		for round := 0; round < 2; round++ {
			if _, err := svc.ResetSessions(ctx); err != nil {
				t.Fatalf("reset round %d failed: %v", round, err)
			}
			list, err := svc.ListSessions(ctx, 1, 10)
			if err != nil {
				t.Fatal(err)
			}
			if list.Total != 0 || len(list.Items) != 0 {
				t.Fatalf("expected empty history after reset, got total %d", list.Total)
			}
		}
	})
}

// Property: word tallies equal the number of correct and wrong reviews recorded.
func TestSessionService_Property_TalliesMatchReviews(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	rapid.Check(t, func(t *rapid.T) {
		session, err := svc.CreateSession(ctx, &models.SessionCreate{GroupID: int64Ptr(1), StudyActivityID: int64Ptr(1)})
		if err != nil {
			t.Fatal(err)
		}

		answers := rapid.SliceOfN(rapid.Bool(), 1, 20).Draw(t, "answers")
		var wantCorrect, wantWrong int64
		for _, correct := range answers {
			correct := correct
			if _, err := svc.CreateReview(ctx, session.ID, &models.ReviewCreate{WordID: int64Ptr(2), Correct: &correct}); err != nil {
				t.Fatal(err)
			}
			if correct {
				wantCorrect++
			} else {
				wantWrong++
			}
		}

		detail, err := svc.GetSession(ctx, session.ID, 1, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(detail.Words) != 1 {
			t.Fatalf("expected 1 word, got %d", len(detail.Words))
		}
		w := detail.Words[0]
		if w.CorrectCount != wantCorrect || w.WrongCount != wantWrong {
			t.Fatalf("tallies %d/%d, want %d/%d", w.CorrectCount, w.WrongCount, wantCorrect, wantWrong)
		}
		if detail.Session.ReviewItemsCount != int64(len(answers)) {
			t.Fatalf("review_items_count %d, want %d", detail.Session.ReviewItemsCount, len(answers))
		}
	})
}

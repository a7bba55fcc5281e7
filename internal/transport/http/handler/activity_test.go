package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adrianoneco/userdir/internal/domain"
	"github.com/adrianoneco/userdir/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

type fakeActivity struct {
	recent func(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}

func (f *fakeActivity) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	return f.recent(ctx, limit)
}

func newActivityEngine(act *fakeActivity) *gin.Engine {
	h := handler.NewActivityHandler(act, slog.New(slog.DiscardHandler))
	r := gin.New()
	r.GET("/api/activity", withActor("actor-1"), h.Recent)
	return r
}

func TestRecentActivity_DefaultLimit(t *testing.T) {
	var captured int
	act := &fakeActivity{
		recent: func(_ context.Context, limit int) ([]domain.ActivityEntry, error) {
			captured = limit
			return []domain.ActivityEntry{}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/activity", nil)
	newActivityEngine(act).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if captured != 50 {
		t.Errorf("limit = %d, want 50", captured)
	}
}

func TestRecentActivity_LimitClampedToWindow(t *testing.T) {
	var captured int
	act := &fakeActivity{
		recent: func(_ context.Context, limit int) ([]domain.ActivityEntry, error) {
			captured = limit
			return []domain.ActivityEntry{}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/activity?limit=5000", nil)
	newActivityEngine(act).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if captured != 1000 {
		t.Errorf("limit = %d, want 1000", captured)
	}
}

func TestRecentActivity_BadLimit_Returns400(t *testing.T) {
	act := &fakeActivity{
		recent: func(_ context.Context, _ int) ([]domain.ActivityEntry, error) {
			t.Fatal("usecase reached with invalid limit")
			return nil, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/activity?limit=abc", nil)
	newActivityEngine(act).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

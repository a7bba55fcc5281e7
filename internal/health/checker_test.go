package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/adrianoneco/userdir/internal/health"
	"github.com/prometheus/client_golang/prometheus"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(_ context.Context) error {
	return p.err
}

func newChecker(dbErr, cacheErr error) *health.Checker {
	return health.NewChecker(
		&fakePinger{err: dbErr},
		&fakePinger{err: cacheErr},
		slog.New(slog.DiscardHandler),
		prometheus.NewRegistry(),
	)
}

func TestLiveness_AlwaysUp(t *testing.T) {
	result := newChecker(nil, nil).Liveness(context.Background())
	if result.Status != "up" {
		t.Errorf("status = %q, want up", result.Status)
	}
}

func TestReadiness_AllDependenciesUp(t *testing.T) {
	result := newChecker(nil, nil).Readiness(context.Background())

	if result.Status != "up" {
		t.Errorf("status = %q, want up", result.Status)
	}
	for _, dep := range []string{"postgres", "redis"} {
		if result.Checks[dep].Status != "up" {
			t.Errorf("%s = %q, want up", dep, result.Checks[dep].Status)
		}
	}
}

func TestReadiness_PostgresDown(t *testing.T) {
	result := newChecker(errors.New("connection refused"), nil).Readiness(context.Background())

	if result.Status != "down" {
		t.Errorf("status = %q, want down", result.Status)
	}
	if result.Checks["postgres"].Status != "down" {
		t.Errorf("postgres = %q, want down", result.Checks["postgres"].Status)
	}
	if result.Checks["redis"].Status != "up" {
		t.Errorf("redis = %q, want up", result.Checks["redis"].Status)
	}
}

func TestReadiness_RedisDown(t *testing.T) {
	result := newChecker(nil, errors.New("connection refused")).Readiness(context.Background())

	if result.Status != "down" {
		t.Errorf("status = %q, want down", result.Status)
	}
	if result.Checks["redis"].Status != "down" {
		t.Errorf("redis = %q, want down", result.Checks["redis"].Status)
	}
}

package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct{ err error }

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{})

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("Status = %s, want %s", report.Status, Healthy)
	}
	if report.Checks["database"] != CheckOK || report.Checks["embedding"] != CheckOK {
		t.Errorf("unexpected checks: %v", report.Checks)
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("connection refused")}, &mockChecker{})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("Status = %s, want %s", report.Status, Degraded)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("database check = %s, want error", report.Checks["database"])
	}
}

func TestCheck_EmbeddingDown(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{err: errors.New("401")})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("Status = %s, want %s", report.Status, Degraded)
	}
}

func TestCheck_NilEmbeddingSkipped(t *testing.T) {
	svc := New(&mockPinger{}, nil)

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("Status = %s, want %s", report.Status, Healthy)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("embedding check must be skipped when no checker is wired")
	}
}

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestNew tests the creation of a new health checker.
func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{
			name:            "default timeout",
			timeout:         0,
			expectedTimeout: 5 * time.Second,
		},
		{
			name:            "custom timeout",
			timeout:         10 * time.Second,
			expectedTimeout: 10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)

			if checker == nil {
				t.Fatal("expected non-nil checker")
			}

			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}

			if checker.CheckCount() != 0 {
				t.Errorf("expected 0 checks, got %d", checker.CheckCount())
			}
		})
	}
}

// TestRegisterCheck_KeepsOrder tests that re-registering a name replaces
// the check without moving it.
func TestRegisterCheck_KeepsOrder(t *testing.T) {
	checker := New(time.Second)

	checker.RegisterCheck("config", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("credential", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("config", func(ctx context.Context) error { return errors.New("replaced") })

	if checker.CheckCount() != 2 {
		t.Errorf("expected 2 checks, got %d", checker.CheckCount())
	}

	names := checker.ListChecks()
	if len(names) != 2 || names[0] != "config" || names[1] != "credential" {
		t.Errorf("unexpected check order %v", names)
	}

	report := checker.Run(context.Background())
	if report.Checks[0].Message != "replaced" {
		t.Errorf("expected replaced check to run, got %+v", report.Checks[0])
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		checks       map[string]CheckFunc
		order        []string
		wantStatus   string
		wantStatuses []string
	}{
		{
			name:       "no checks",
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"a": func(ctx context.Context) error { return nil },
				"b": func(ctx context.Context) error { return nil },
			},
			order:        []string{"a", "b"},
			wantStatus:   StatusReady,
			wantStatuses: []string{StatusOK, StatusOK},
		},
		{
			name: "disabled does not degrade",
			checks: map[string]CheckFunc{
				"a": func(ctx context.Context) error { return nil },
				"b": func(ctx context.Context) error { return ErrDisabled },
			},
			order:        []string{"a", "b"},
			wantStatus:   StatusReady,
			wantStatuses: []string{StatusOK, StatusDisabled},
		},
		{
			name: "one unhealthy",
			checks: map[string]CheckFunc{
				"a": func(ctx context.Context) error { return errors.New("boom") },
				"b": func(ctx context.Context) error { return nil },
			},
			order:        []string{"a", "b"},
			wantStatus:   StatusDegraded,
			wantStatuses: []string{StatusUnhealthy, StatusOK},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for _, name := range tt.order {
				checker.RegisterCheck(name, tt.checks[name])
			}

			report := checker.Run(context.Background())

			if report.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, report.Status)
			}
			if report.Timestamp.IsZero() {
				t.Error("expected timestamp to be set")
			}
			if len(report.Checks) != len(tt.wantStatuses) {
				t.Fatalf("expected %d results, got %d", len(tt.wantStatuses), len(report.Checks))
			}
			for i, want := range tt.wantStatuses {
				if report.Checks[i].Name != tt.order[i] {
					t.Errorf("result %d: expected name %q, got %q", i, tt.order[i], report.Checks[i].Name)
				}
				if report.Checks[i].Status != want {
					t.Errorf("result %d: expected status %q, got %q", i, want, report.Checks[i].Status)
				}
			}
		})
	}
}

func TestRun_UnhealthyMessage(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("endpoint", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	report := checker.Run(context.Background())

	if report.Healthy() {
		t.Error("expected unhealthy report")
	}
	if report.Checks[0].Message != "connection refused" {
		t.Errorf("unexpected message %q", report.Checks[0].Message)
	}
}

func TestRun_Timeout(t *testing.T) {
	checker := New(50 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		time.Sleep(500 * time.Millisecond)
		return nil
	})

	start := time.Now()
	report := checker.Run(context.Background())

	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("expected check to time out early, took %v", elapsed)
	}
	if report.Checks[0].Status != StatusUnhealthy || report.Checks[0].Message != ErrCheckTimeout.Error() {
		t.Errorf("expected timeout result, got %+v", report.Checks[0])
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	checker := New(5 * time.Second)
	checker.RegisterCheck("blocking", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := checker.Run(ctx)
	if report.Status != StatusDegraded {
		t.Errorf("expected degraded status after cancellation, got %q", report.Status)
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		err        error
		wantStatus int
		wantBody   bool
	}{
		{name: "healthy", method: http.MethodGet, wantStatus: http.StatusOK, wantBody: true},
		{name: "unhealthy", method: http.MethodGet, err: errors.New("down"), wantStatus: http.StatusServiceUnavailable, wantBody: true},
		{name: "head", method: http.MethodHead, wantStatus: http.StatusOK},
		{name: "post rejected", method: http.MethodPost, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			checker.RegisterCheck("store", func(ctx context.Context) error { return tt.err })

			req := httptest.NewRequest(tt.method, "/healthz", nil)
			rec := httptest.NewRecorder()
			checker.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			if !tt.wantBody {
				return
			}

			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}

			var report Report
			if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
				t.Fatalf("failed to decode report: %v", err)
			}
			if len(report.Checks) != 1 || report.Checks[0].Name != "store" {
				t.Errorf("unexpected checks %+v", report.Checks)
			}
		})
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/converse/internal/providers"
	"mercator-hq/converse/pkg/config"
	"mercator-hq/converse/pkg/conversation"
	pkgproviders "mercator-hq/converse/pkg/providers"
)

// newTestREPL wires the client's logger to the same stream the REPL prints
// errors on, as the CLI does with stderr.
func newTestREPL(ms *providers.MockServer, input string) (*repl, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	client := conversation.New("sk-test", providers.TestHTTPClient()).
		SetEndpoint(ms.CompletionsURL()).
		SetLogger(slog.New(slog.NewTextHandler(errOut, nil)))

	return &repl{
		client: client,
		in:     strings.NewReader(input),
		out:    out,
		errOut: errOut,
	}, out, errOut
}

func TestREPL_Conversation(t *testing.T) {
	ms := newTestServer(t, "pong")
	r, out, errOut := newTestREPL(ms, "hello\n\n   \nsecond\n")

	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if out.String() != "pong\npong\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected error output %q", errOut.String())
	}
	if ms.GetRequestCount() != 2 {
		t.Errorf("expected 2 requests, blank lines skipped, got %d", ms.GetRequestCount())
	}

	want := []pkgproviders.Message{
		pkgproviders.NewMessage(pkgproviders.RoleUser, "hello"),
		pkgproviders.NewMessage(pkgproviders.RoleAssistant, "pong"),
		pkgproviders.NewMessage(pkgproviders.RoleUser, "second"),
		pkgproviders.NewMessage(pkgproviders.RoleAssistant, "pong"),
	}
	got := r.client.ChatMessages()
	if len(got) != len(want) {
		t.Fatalf("expected %d chat messages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	// The second request carries the first exchange
	body := providers.DecodeSentBody(t, ms)
	if len(body.Messages) != 3 {
		t.Errorf("expected 3 messages in second request, got %d", len(body.Messages))
	}
}

func TestREPL_ErrorsContinue(t *testing.T) {
	ms := newTestServer(t, "pong")
	ms.SetResponse(providers.CompletionsPath, providers.MockServerError())

	r, out, errOut := newTestREPL(ms, "first\nsecond\n/exit\nnever sent\n")

	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("expected no replies, got %q", out.String())
	}
	// One diagnostic per failed turn
	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("expected two diagnostic lines, got %q", errOut.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, "error in response status") {
			t.Errorf("expected the client's diagnostic, got %q", line)
		}
	}
	if ms.GetRequestCount() != 2 {
		t.Errorf("expected /exit to stop before the third line, got %d requests", ms.GetRequestCount())
	}

	// Failed turns keep the user message but add no reply
	if n := len(r.client.ChatMessages()); n != 2 {
		t.Errorf("expected 2 user messages in history, got %d", n)
	}
}

func TestREPL_RefreshFailure(t *testing.T) {
	ms := newTestServer(t, "pong")
	r, _, errOut := newTestREPL(ms, "hello\n")
	r.refresh = func(context.Context) error { return errors.New("credential unavailable") }

	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(errOut.String(), "credential unavailable") {
		t.Errorf("expected refresh error printed, got %q", errOut.String())
	}
	if n := strings.Count(strings.TrimSpace(errOut.String()), "\n"); n != 0 {
		t.Errorf("expected a single error line, got %q", errOut.String())
	}
	if ms.GetRequestCount() != 0 {
		t.Errorf("expected no request, got %d", ms.GetRequestCount())
	}
}

func TestREPL_Prompt(t *testing.T) {
	ms := newTestServer(t, "pong")
	r, out, _ := newTestREPL(ms, "hello\n")
	r.prompt = "> "

	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if out.String() != "> pong\n> " {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestREPL_ContextCancel(t *testing.T) {
	ms := newTestServer(t, "pong")
	r, _, _ := newTestREPL(ms, "")

	pr, pw := io.Pipe()
	defer pw.Close()
	r.in = pr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.run(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil on cancellation, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestApplyClientFlags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantModel  string
		wantLimit  uint
		wantSystem []string
	}{
		{
			name:       "no flags keep config",
			wantModel:  config.DefaultModel,
			wantLimit:  config.DefaultHistoryLimit,
			wantSystem: []string{"configured"},
		},
		{
			name:       "overrides",
			args:       []string{"--model", "gpt-4o", "--history-limit", "2", "-s", "a", "--system", "b"},
			wantModel:  "gpt-4o",
			wantLimit:  2,
			wantSystem: []string{"a", "b"},
		},
		{
			name:       "zero history limit is honoured",
			args:       []string{"--history-limit", "0"},
			wantModel:  config.DefaultModel,
			wantLimit:  0,
			wantSystem: []string{"configured"},
		},
		{
			name:       "blank model ignored",
			args:       []string{"--model", "  "},
			wantModel:  config.DefaultModel,
			wantLimit:  config.DefaultHistoryLimit,
			wantSystem: []string{"configured"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flags clientFlags
			cmd := &cobra.Command{Use: "test"}
			addClientFlags(cmd, &flags)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags failed: %v", err)
			}

			cfg := config.NewDefault()
			cfg.Prompts.System = []string{"configured"}
			applyClientFlags(cmd, &flags, cfg)

			if cfg.Client.Model != tt.wantModel {
				t.Errorf("model = %q, want %q", cfg.Client.Model, tt.wantModel)
			}
			if cfg.Client.HistoryLimit != tt.wantLimit {
				t.Errorf("history limit = %d, want %d", cfg.Client.HistoryLimit, tt.wantLimit)
			}
			if strings.Join(cfg.Prompts.System, "|") != strings.Join(tt.wantSystem, "|") {
				t.Errorf("system = %v, want %v", cfg.Prompts.System, tt.wantSystem)
			}
		})
	}
}

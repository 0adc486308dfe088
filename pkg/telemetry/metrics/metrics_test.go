package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/converse/internal/providers"
	"mercator-hq/converse/pkg/config"
	"mercator-hq/converse/pkg/conversation"
	pkgproviders "mercator-hq/converse/pkg/providers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		DurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

// TestCollector_NewCollector tests collector creation
func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if !collector.Enabled() {
		t.Error("Expected collector to be enabled")
	}
}

// TestCollector_Defaults tests that empty namespace and buckets are filled in
func TestCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	collector := NewCollector(cfg, nil)

	if collector.Registry() == nil {
		t.Fatal("Expected a registry to be created")
	}
	if cfg.Namespace != "converse" {
		t.Errorf("Expected namespace %q, got %q", "converse", cfg.Namespace)
	}
	if len(cfg.DurationBuckets) != len(config.DefaultDurationBuckets) {
		t.Errorf("Expected default buckets, got %v", cfg.DurationBuckets)
	}
}

// TestCollector_ObserveCompletion tests completion recording from events
func TestCollector_ObserveCompletion(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	ctx := context.Background()
	msgs := []pkgproviders.Message{
		pkgproviders.NewMessage(pkgproviders.RoleSystem, "be brief"),
		pkgproviders.NewMessage(pkgproviders.RoleUser, "hi"),
	}

	collector.ObserveCompletion(ctx, conversation.CompletionEvent{
		Model:    "gpt-4o-mini",
		Messages: msgs,
		Duration: 300 * time.Millisecond,
		Content:  "hello",
	})
	collector.ObserveCompletion(ctx, conversation.CompletionEvent{
		Model:    "gpt-4o-mini",
		Messages: msgs,
		Duration: 50 * time.Millisecond,
		Err:      &pkgproviders.HTTPStatusError{Provider: "openai", StatusCode: 429},
	})

	cm := collector.completionMetrics
	if got := testutil.ToFloat64(cm.completionsTotal.WithLabelValues("gpt-4o-mini", "success")); got != 1 {
		t.Errorf("Expected 1 success, got %f", got)
	}
	if got := testutil.ToFloat64(cm.completionsTotal.WithLabelValues("gpt-4o-mini", "error")); got != 1 {
		t.Errorf("Expected 1 error, got %f", got)
	}
	if got := testutil.ToFloat64(cm.errorsTotal.WithLabelValues("gpt-4o-mini", pkgproviders.KindHTTPStatus)); got != 1 {
		t.Errorf("Expected 1 http_status error, got %f", got)
	}
	if got := testutil.CollectAndCount(cm.duration); got != 1 {
		t.Errorf("Expected 1 duration series, got %d", got)
	}
	if got := testutil.CollectAndCount(cm.requestMessages); got != 1 {
		t.Errorf("Expected 1 request_messages series, got %d", got)
	}
}

// TestCollector_ErrorKinds tests the error_type label for each failure kind
func TestCollector_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"transport", &pkgproviders.TransportError{Provider: "openai", Cause: errors.New("refused")}, pkgproviders.KindTransport},
		{"malformed", &pkgproviders.MalformedResponseError{Provider: "openai", Cause: errors.New("no choices")}, pkgproviders.KindMalformedResponse},
		{"canceled", &pkgproviders.TransportError{Provider: "openai", Cause: context.Canceled}, pkgproviders.KindCanceled},
		{"unknown", errors.New("boom"), pkgproviders.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := NewCollector(testConfig(), nil)
			collector.ObserveCompletion(context.Background(), conversation.CompletionEvent{Model: "m", Err: tt.err})

			if got := testutil.ToFloat64(collector.completionMetrics.errorsTotal.WithLabelValues("m", tt.want)); got != 1 {
				t.Errorf("Expected error_type %q to be 1, got %f", tt.want, got)
			}
		})
	}
}

// TestCollector_Disabled tests that metrics are not recorded when disabled
func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.ObserveCompletion(context.Background(), conversation.CompletionEvent{Model: "gpt-4o-mini"})
	collector.RecordTranscriptWrite(nil)
	collector.RecordTranscriptPrune(5, nil)
	collector.RecordCredentialLoad("env", nil)

	if got := testutil.CollectAndCount(collector.completionMetrics.completionsTotal); got != 0 {
		t.Errorf("Expected no completion series, got %d", got)
	}
	if got := testutil.CollectAndCount(collector.storeMetrics.writesTotal); got != 0 {
		t.Errorf("Expected no transcript series, got %d", got)
	}
}

// TestCollector_ModelCardinality tests that excess models collapse into "other"
func TestCollector_ModelCardinality(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.cardinalityLimiter = NewCardinalityLimiter(1)

	collector.RecordCompletion("gpt-4o-mini", "success", "", time.Second, 2)
	collector.RecordCompletion("gpt-4o", "success", "", time.Second, 2)

	cm := collector.completionMetrics
	if got := testutil.ToFloat64(cm.completionsTotal.WithLabelValues("gpt-4o-mini", "success")); got != 1 {
		t.Errorf("Expected first model recorded, got %f", got)
	}
	if got := testutil.ToFloat64(cm.completionsTotal.WithLabelValues("other", "success")); got != 1 {
		t.Errorf("Expected second model aggregated as other, got %f", got)
	}
}

// TestCollector_StoreMetrics tests transcript and credential recording
func TestCollector_StoreMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	sm := collector.storeMetrics

	collector.RecordTranscriptWrite(nil)
	collector.RecordTranscriptWrite(errors.New("disk full"))
	collector.RecordTranscriptPrune(7, nil)
	collector.RecordTranscriptPrune(0, errors.New("locked"))
	collector.RecordCredentialLoad("file", nil)

	if got := testutil.ToFloat64(sm.writesTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("Expected 1 successful write, got %f", got)
	}
	if got := testutil.ToFloat64(sm.writesTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("Expected 1 failed write, got %f", got)
	}
	if got := testutil.ToFloat64(sm.prunedTotal); got != 7 {
		t.Errorf("Expected 7 pruned entries, got %f", got)
	}
	if got := testutil.ToFloat64(sm.pruneRunsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("Expected 1 failed prune run, got %f", got)
	}
	if got := testutil.ToFloat64(sm.credentialLoads.WithLabelValues("file", "success")); got != 1 {
		t.Errorf("Expected 1 credential load, got %f", got)
	}
}

// TestCollector_Handler tests the exposition endpoint
func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordCompletion("gpt-4o-mini", "success", "", time.Second, 3)

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to scrape metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "test_completions_total") {
		t.Errorf("Expected completions metric in output, got:\n%s", body)
	}
}

// TestCollector_AsClientObserver tests the collector wired into a real client
func TestCollector_AsClientObserver(t *testing.T) {
	ms := providers.NewMockServer()
	defer ms.Close()
	ms.SetResponse(providers.CompletionsPath, providers.MockServerError())

	collector := NewCollector(testConfig(), nil)
	client := conversation.New("sk-test", providers.TestHTTPClient()).
		SetEndpoint(ms.CompletionsURL()).
		SetObserver(collector)
	client.PushUserMessage("hello")

	if _, err := client.Completion(context.Background()); err == nil {
		t.Fatal("Expected error from 500 response")
	}

	got := testutil.ToFloat64(collector.completionMetrics.errorsTotal.WithLabelValues(client.Model(), pkgproviders.KindHTTPStatus))
	if got != 1 {
		t.Errorf("Expected 1 http_status error for %s, got %f", client.Model(), got)
	}
}

// TestCardinalityLimiter tests cardinality limiting
func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(3)

	for _, label := range []string{"label1", "label2", "label3"} {
		if !limiter.Allow(label) {
			t.Errorf("Expected %s to be allowed", label)
		}
	}

	if limiter.Allow("label4") {
		t.Error("Expected fourth label to be rejected")
	}
	if !limiter.Allow("label1") {
		t.Error("Expected existing label to be allowed")
	}
	if limiter.Count() != 3 {
		t.Errorf("Expected count=3, got %d", limiter.Count())
	}
}

// TestCollector_ConcurrentRecording tests thread-safety
func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				collector.RecordCompletion("gpt-4o-mini", "success", "", time.Second, 2)
				collector.RecordTranscriptWrite(nil)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	count := testutil.ToFloat64(collector.completionMetrics.completionsTotal.WithLabelValues("gpt-4o-mini", "success"))
	if count != 1000 {
		t.Errorf("Expected 1000 completions, got %f", count)
	}
}

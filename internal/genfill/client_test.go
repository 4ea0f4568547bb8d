package genfill

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient builds a client against a test server with recorded sleeps.
func newTestClient(t *testing.T, ts *httptest.Server) (*Client, *[]time.Duration) {
	t.Helper()
	c, err := New("test-key", Options{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var waits []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return c, &waits
}

func imageResponse(data []byte) string {
	resp := generateResponse{}
	resp.Candidates = []struct {
		Content content `json:"content"`
	}{{Content: content{Parts: []part{
		{Text: "done"},
		{InlineData: &inlineData{MimeType: "image/png", Data: base64.StdEncoding.EncodeToString(data)}},
	}}}}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New("", Options{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("New(\"\") error = %v, want ErrNotConfigured", err)
	}
}

func TestFillCanvas_Success(t *testing.T) {
	want := []byte("generated-image-bytes")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("missing API key header")
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		text := req.Contents[0].Parts[0].Text
		if !strings.Contains(text, "640 x 480") {
			t.Errorf("instruction missing target dimensions: %s", text)
		}
		if !strings.Contains(text, "do not crop") {
			t.Errorf("instruction missing preservation constraint: %s", text)
		}
		if req.Contents[0].Parts[1].InlineData.MimeType != "image/png" {
			t.Error("image part missing or wrong MIME type")
		}

		w.Write([]byte(imageResponse(want)))
	}))
	defer ts.Close()

	c, waits := newTestClient(t, ts)
	got, err := c.FillCanvas(context.Background(), []byte("input"), "image/png", 640, 480)
	if err != nil {
		t.Fatalf("FillCanvas failed: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("payload: got %q, want %q", got, want)
	}
	if len(*waits) != 0 {
		t.Errorf("success on first attempt should not sleep, slept %v", *waits)
	}
}

func TestFillCanvas_ExhaustsRetries(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// 200 with no image part: an attempt failure, not an empty success.
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	}))
	defer ts.Close()

	c, waits := newTestClient(t, ts)
	_, err := c.FillCanvas(context.Background(), []byte("input"), "image/png", 100, 100)

	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("error = %v, want ErrExhausted", err)
	}
	if !errors.Is(err, ErrNoImage) {
		t.Errorf("terminal error should wrap the per-attempt cause: %v", err)
	}
	if calls != 3 {
		t.Errorf("attempts: got %d, want exactly 3", calls)
	}
	for _, attempt := range []string{"attempt 1", "attempt 2", "attempt 3"} {
		if !strings.Contains(err.Error(), attempt) {
			t.Errorf("terminal error missing %q: %v", attempt, err)
		}
	}
	if len(*waits) != 2 || (*waits)[0] != time.Second || (*waits)[1] != 2*time.Second {
		t.Errorf("backoff waits: got %v, want [1s 2s]", *waits)
	}
}

func TestFillCanvas_ServerErrorsRetry(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(imageResponse([]byte("recovered"))))
	}))
	defer ts.Close()

	c, _ := newTestClient(t, ts)
	got, err := c.FillCanvas(context.Background(), []byte("input"), "image/png", 100, 100)
	if err != nil {
		t.Fatalf("FillCanvas failed: %v", err)
	}
	if string(got) != "recovered" {
		t.Errorf("payload: got %q, want %q", got, "recovered")
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestFillCanvas_ClientErrorAbortsEarly(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"prompt rejected","status":"INVALID_ARGUMENT"}}`))
	}))
	defer ts.Close()

	c, waits := newTestClient(t, ts)
	_, err := c.FillCanvas(context.Background(), []byte("input"), "image/png", 100, 100)

	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("error = %v, want ErrExhausted", err)
	}
	if calls != 1 {
		t.Errorf("400 should abort retries: got %d calls, want 1", calls)
	}
	if len(*waits) != 0 {
		t.Errorf("no backoff expected after a permanent failure, slept %v", *waits)
	}
	if !strings.Contains(err.Error(), "prompt rejected") {
		t.Errorf("service message lost: %v", err)
	}
}

func TestFillCanvas_TooManyRequestsRetries(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c, _ := newTestClient(t, ts)
	_, err := c.FillCanvas(context.Background(), []byte("input"), "image/png", 100, 100)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("error = %v, want ErrExhausted", err)
	}
	if calls != 3 {
		t.Errorf("429 is retriable: got %d calls, want 3", calls)
	}
}

func TestFillCanvas_CanceledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(imageResponse([]byte("late"))))
	}))
	defer ts.Close()

	c, _ := newTestClient(t, ts)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FillCanvas(ctx, []byte("input"), "image/png", 100, 100)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestEnhance_UsesDefaultInstruction(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(req.Contents[0].Parts[0].Text, "Enhance") {
			t.Errorf("default instruction missing: %s", req.Contents[0].Parts[0].Text)
		}
		w.Write([]byte(imageResponse([]byte("enhanced"))))
	}))
	defer ts.Close()

	c, _ := newTestClient(t, ts)
	got, err := c.Enhance(context.Background(), []byte("input"), "image/png", "")
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}
	if string(got) != "enhanced" {
		t.Errorf("payload: got %q", got)
	}
}

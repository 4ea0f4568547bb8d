package genfill

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Sentinel errors for the generative-fill taxonomy.
var (
	// ErrNotConfigured means no API key is available; the caller should use
	// the deterministic strategy instead of constructing a client.
	ErrNotConfigured = errors.New("generative fill not configured: missing API key")

	// ErrExhausted is the terminal error after every attempt failed. It
	// wraps the joined per-attempt errors. Callers with a deterministic
	// fallback treat it as recoverable.
	ErrExhausted = errors.New("generative fill attempts exhausted")

	// ErrNoImage marks an attempt whose response carried no inline image
	// part. A success status with no image is a failure, not an empty
	// result.
	ErrNoImage = errors.New("generative fill response contained no image")
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel       = "gemini-2.0-flash-exp-image-generation"
	defaultMaxAttempts = 3
	defaultBackoffStep = time.Second
	defaultTimeout     = 120 * time.Second
)

// Options tunes a Client. Zero values select defaults.
type Options struct {
	// Model is the generation model name.
	Model string

	// BaseURL overrides the API endpoint, primarily for tests.
	BaseURL string

	// HTTPClient overrides the transport. The default applies a 120s
	// timeout; generation is slow.
	HTTPClient *http.Client

	// MaxAttempts caps the sequential attempts per call.
	MaxAttempts int

	// BackoffStep is the base wait between attempts; attempt n waits
	// n * BackoffStep before attempt n+1.
	BackoffStep time.Duration
}

// Client submits images with instructions to the generative service.
// Construct with New; the zero value is not usable.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
	backoffStep time.Duration

	// sleep is replaced in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a generative-fill client.
//
// Returns ErrNotConfigured when apiKey is empty so callers can select the
// deterministic strategy instead.
func New(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	c := &Client{
		apiKey:      apiKey,
		model:       opts.Model,
		baseURL:     opts.BaseURL,
		httpClient:  opts.HTTPClient,
		maxAttempts: opts.MaxAttempts,
		backoffStep: opts.BackoffStep,
		sleep:       ctxSleep,
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = defaultMaxAttempts
	}
	if c.backoffStep <= 0 {
		c.backoffStep = defaultBackoffStep
	}
	return c, nil
}

// FillCanvas asks the service to extend an image to the target dimensions,
// adding only seamless background around the centered original.
//
// Parameters:
//   - ctx: Cancels waits and in-flight requests.
//   - imageData: Encoded image bytes.
//   - mimeType: MIME type of imageData (e.g. "image/png").
//   - width, height: Exact target pixel dimensions.
//
// Returns the generated image bytes, or an error wrapping ErrExhausted
// after all attempts fail. The caller must still verify the result differs
// from the input; the service can decline an edit while reporting success.
func (c *Client) FillCanvas(ctx context.Context, imageData []byte, mimeType string, width, height int) ([]byte, error) {
	return c.generate(ctx, fillInstruction(width, height), imageData, mimeType)
}

// Enhance submits an image with a free-form enhancement instruction.
// An empty instruction selects a general quality-improvement prompt.
func (c *Client) Enhance(ctx context.Context, imageData []byte, mimeType, instruction string) ([]byte, error) {
	if instruction == "" {
		instruction = defaultEnhanceInstruction
	}
	return c.generate(ctx, instruction, imageData, mimeType)
}

// generate runs the bounded retry loop around single attempts.
func (c *Client) generate(ctx context.Context, instruction string, imageData []byte, mimeType string) ([]byte, error) {
	var attemptErrs []error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			attemptErrs = append(attemptErrs, err)
			break
		}

		out, err := c.attempt(ctx, instruction, imageData, mimeType)
		if err == nil {
			return out, nil
		}
		attemptErrs = append(attemptErrs, fmt.Errorf("attempt %d: %w", attempt, err))
		logger().Warn("generative fill attempt failed",
			"attempt", attempt, "max_attempts", c.maxAttempts, "error", err)

		var perm *permanentError
		if errors.As(err, &perm) {
			break
		}
		if attempt < c.maxAttempts {
			if err := c.sleep(ctx, time.Duration(attempt)*c.backoffStep); err != nil {
				attemptErrs = append(attemptErrs, err)
				break
			}
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrExhausted, errors.Join(attemptErrs...))
}

// Request and response shapes for the generateContent endpoint.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// permanentError marks attempt failures that retrying cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// bodyPool reuses request-body scratch buffers across attempts and calls.
var bodyPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// attempt performs one request/response round trip.
func (c *Client) attempt(ctx context.Context, instruction string, imageData []byte, mimeType string) ([]byte, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: instruction},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(imageData),
				}},
			},
		}},
	}

	buf := bodyPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bodyPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(&reqBody); err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed generateResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if decodeErr == nil && parsed.Error != nil {
			msg = fmt.Sprintf("%s: %s", resp.Status, parsed.Error.Message)
		}
		err := fmt.Errorf("service returned %s", msg)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, &permanentError{err: err}
		}
		return nil, err
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode image payload: %w", err)
			}
			return data, nil
		}
	}
	return nil, ErrNoImage
}

// ctxSleep waits for d or until the context is canceled.
func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

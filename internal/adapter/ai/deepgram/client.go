// Package deepgram talks to the Deepgram prerecorded transcription API and
// normalizes its output into domain transcription results.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/infrastructure/circuitbreaker"
)

const (
	defaultBaseURL = "https://api.deepgram.com/v1"
	defaultModel   = "nova-2"
)

// ListenOptions are the query parameters of a prerecorded request.
type ListenOptions struct {
	Model          string
	SmartFormat    bool
	DetectLanguage bool
	Punctuate      bool
	Diarize        bool
}

// Response is the subset of the /listen response the adapter consumes.
type Response struct {
	Metadata *Metadata `json:"metadata,omitempty"`
	Results  *Results  `json:"results,omitempty"`
}

type Metadata struct {
	RequestID string  `json:"request_id"`
	Duration  float64 `json:"duration"`
}

type Results struct {
	Channels []Channel `json:"channels"`
}

type Channel struct {
	DetectedLanguage   string        `json:"detected_language,omitempty"`
	LanguageConfidence float64       `json:"language_confidence,omitempty"`
	Alternatives       []Alternative `json:"alternatives"`
}

type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// APIError is a non-2xx answer from Deepgram.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrCode    string `json:"err_code"`
	ErrMsg     string `json:"err_msg"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	if e.ErrMsg != "" {
		return e.ErrMsg
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for a proxy or a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// Client is safe for concurrent use; it holds no per-request state.
type Client struct {
	apiKey  string
	baseURL string
	http    *circuitbreaker.HTTPClient
	log     *zap.Logger
}

// NewClient creates a Deepgram REST client. httpClient carries the timeout and
// circuit breaker for every call.
func NewClient(apiKey string, httpClient *circuitbreaker.HTTPClient, log *zap.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("deepgram: apiKey must not be empty")
	}
	if httpClient == nil {
		httpClient = circuitbreaker.NewHTTPClient(nil, nil, log)
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    httpClient,
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Listen uploads audio to the prerecorded endpoint.
func (c *Client) Listen(ctx context.Context, audio []byte, mimeType string, opts ListenOptions) (*Response, error) {
	endpoint, err := c.buildURL(opts)
	if err != nil {
		return nil, fmt.Errorf("deepgram: build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("deepgram: create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("deepgram: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(body, apiErr)
		c.log.Warn("Deepgram returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("err_code", apiErr.ErrCode),
			zap.String("request_id", apiErr.RequestID),
		)
		return nil, apiErr
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("deepgram: decode response: %w", err)
	}
	return &out, nil
}

func (c *Client) buildURL(opts ListenOptions) (string, error) {
	u, err := url.Parse(c.baseURL + "/listen")
	if err != nil {
		return "", err
	}

	model := opts.Model
	if model == "" {
		model = defaultModel
	}

	q := u.Query()
	q.Set("model", model)
	q.Set("smart_format", strconv.FormatBool(opts.SmartFormat))
	q.Set("detect_language", strconv.FormatBool(opts.DetectLanguage))
	q.Set("punctuate", strconv.FormatBool(opts.Punctuate))
	q.Set("diarize", strconv.FormatBool(opts.Diarize))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

const defaultUserAgent = "clinicasj-assistant/1.0"

var (
	// ErrSubmissionFailed wraps every transport or acknowledgement failure.
	ErrSubmissionFailed = errors.New("booking: submission failed")
	// ErrIncompleteRequest is returned when Submit is handed a request that does not pass Check.
	ErrIncompleteRequest = errors.New("booking: request is incomplete")
)

// ClientConfig controls how the intake client behaves.
type ClientConfig struct {
	IntakeURL  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	Tracer     trace.Tracer
	UserAgent  string
}

// Client posts validated requests to the intake endpoint. It never retries:
// a request is delivered at most once per Submit call.
type Client struct {
	intakeURL  string
	httpClient *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
	userAgent  string
}

// NewClient creates an intake client with sane defaults.
func NewClient(cfg ClientConfig) (*Client, error) {
	intakeURL := strings.TrimSpace(cfg.IntakeURL)
	if intakeURL == "" {
		return nil, errors.New("booking: intake URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("clinicasj.internal.booking")
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		intakeURL:  intakeURL,
		httpClient: httpClient,
		logger:     logger,
		tracer:     tracer,
		userAgent:  userAgent,
	}, nil
}

// intakeResponse mirrors the intake endpoint acknowledgement.
type intakeResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Issues Issues `json:"issues,omitempty"`
}

// Submit delivers r to the intake endpoint. It returns nil only when the
// endpoint acknowledged with {"ok": true}.
func (c *Client) Submit(ctx context.Context, r Request) error {
	ctx, span := c.tracer.Start(ctx, "booking.submit")
	defer span.End()
	span.SetAttributes(attribute.String("booking.specialty", r.Specialty))

	if issues := r.Check(); len(issues) > 0 {
		span.SetStatus(codes.Error, "incomplete request")
		return fmt.Errorf("%w: %s", ErrIncompleteRequest, issues.Error())
	}

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrSubmissionFailed, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.intakeURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrSubmissionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: read response: %v", ErrSubmissionFailed, err)
	}

	var ack intakeResponse
	decodeErr := json.Unmarshal(raw, &ack)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decodeErr != nil || !ack.OK {
		detail := ack.Error
		if detail == "" {
			detail = strings.TrimSpace(string(raw))
		}
		if len(ack.Issues) > 0 {
			detail = ack.Issues.Error()
		}
		span.SetStatus(codes.Error, "not acknowledged")
		return fmt.Errorf("%w: intake returned status %d: %s", ErrSubmissionFailed, resp.StatusCode, detail)
	}

	c.logger.Info("booking: request acknowledged",
		"specialty", r.Specialty,
		"time_of_day", string(r.TimeOfDay),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

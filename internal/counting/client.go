package counting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/citruscounter/citruscounter/internal/model"
)

// API paths on the counting service.
const (
	summaryPath        = "/summary"
	generateReportPath = "/generate-report"
)

// maxErrorBodySize bounds how much of an error response body is read.
// Error messages are short; anything larger is not worth buffering.
const maxErrorBodySize = 64 * 1024

// Client submits counting requests to the remote service.
//
// Design decision: The client owns the single-submission invariant rather
// than the session, because the invariant is about the network resource
// (one upload per user at a time), not about session state. The session
// still reports the duplicate to its caller, but the guard cannot be
// bypassed by constructing a second session.
type Client struct {
	// endpoint is the service base URL without a trailing slash.
	endpoint string

	// httpClient performs the requests. Its Timeout bounds the whole
	// round-trip including the multipart upload.
	httpClient *http.Client

	// userAgent is sent on every request.
	userAgent string

	// logger is used for structured logging.
	logger *slog.Logger

	// inFlight is set while a submission is outstanding.
	inFlight atomic.Bool
}

// Option configures a Client.
// This follows the functional options pattern for clean API design.
type Option func(*Client)

// WithTimeout sets the round-trip timeout for requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Tests use this to
// install spy transports.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithUserAgent sets the User-Agent header value.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client for the service at the given base URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Submit uploads a counting submission and returns the service's result.
//
// The submission is validated before any network I/O: an incomplete
// submission never reaches the wire. Exactly one submission may be
// outstanding; a concurrent call fails with ErrSubmissionInFlight.
func (c *Client) Submit(ctx context.Context, sub *model.CountingSubmission) (*model.CountingResult, error) {
	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("invalid submission: %w", err)
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	body, contentType, err := buildMultipartBody(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to build submission body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+summaryPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("submitting counting request",
		"endpoint", c.endpoint,
		"phone", sub.Identity.Phone,
		"images", len(sub.Images),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "submit", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serviceErrorFromResponse(resp)
	}

	var result model.CountingResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ServiceError{Code: resp.StatusCode, Message: "malformed response body: " + err.Error()}
	}
	if err := result.Validate(); err != nil {
		return nil, &ServiceError{Code: resp.StatusCode, Message: "invalid response: " + err.Error()}
	}

	c.logger.Debug("counting request succeeded",
		"latestCount", result.LatestCount,
		"historyEntries", len(result.History),
	)
	return &result, nil
}

// reportPayload is the wire format of a report persisted server-side.
type reportPayload struct {
	Date               string `json:"date"`
	FarmerName         string `json:"farmerName"`
	CitrusCountPerTree int    `json:"citrusCountPerTree"`
	TotalTrees         int    `json:"totalTrees"`
}

// GenerateReport persists a finished report on the service so it shows up
// in the backend's records. The derived per-acre figure is intentionally
// not sent; the server recomputes it from the same inputs.
func (c *Client) GenerateReport(ctx context.Context, report *model.Report) error {
	payload := reportPayload{
		Date:               report.DateString(),
		FarmerName:         report.FarmerName,
		CitrusCountPerTree: report.CitrusCountPerTree,
		TotalTrees:         report.TotalTrees,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+generateReportPath, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "generate-report", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serviceErrorFromResponse(resp)
	}

	// The service echoes the report fields on success; nothing to keep.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
	return nil
}

// buildMultipartBody encodes the submission as a multipart form: the four
// image files as parts image1..image4 plus the phone as a plain field.
func buildMultipartBody(sub *model.CountingSubmission) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for i, ref := range sub.Images {
		part, err := writer.CreateFormFile(fmt.Sprintf("image%d", i+1), filepath.Base(ref))
		if err != nil {
			return nil, "", err
		}

		file, err := os.Open(ref) //nolint:gosec // Refs come from the user's own picker
		if err != nil {
			return nil, "", fmt.Errorf("failed to open image %s: %w", ref, err)
		}
		_, copyErr := io.Copy(part, file)
		closeErr := file.Close()
		if copyErr != nil {
			return nil, "", fmt.Errorf("failed to read image %s: %w", ref, copyErr)
		}
		if closeErr != nil {
			return nil, "", fmt.Errorf("failed to close image %s: %w", ref, closeErr)
		}
	}

	if err := writer.WriteField("phone", sub.Identity.Phone); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

// serviceErrorFromResponse builds a ServiceError from a non-2xx response.
// The service reports failures as {"message": "..."}; bodies that don't
// match fall back to the raw text.
func serviceErrorFromResponse(resp *http.Response) *ServiceError {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return &ServiceError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return &ServiceError{Code: resp.StatusCode, Message: body.Message}
	}

	return &ServiceError{Code: resp.StatusCode, Message: strings.TrimSpace(string(data))}
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mkovac/journal-insights/internal/insight"
)

// Client talks to an Ollama-compatible generation API. One orchestrated
// run makes exactly one generation call; retrying is left to the next
// scheduled trigger so a rate-limited backend is never hammered.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client. callsPerMinute caps the request rate
// across all insight types; 0 disables client-side limiting.
func NewClient(baseURL, model string, callsPerMinute int) *Client {
	var limiter *rate.Limiter
	if callsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(callsPerMinute)/60.0), 1)
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		limiter: limiter,
	}
}

// generateRequest is the request body for /api/generate
type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"` // "json" for structured output
}

// generateResponse is the response from /api/generate
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// GenerateStructured sends one prompt and returns the raw JSON output.
// Failures carry the *insight.BackendError taxonomy: transport for
// network trouble and 5xx, refused for 4xx and empty completions,
// malformed when the envelope cannot be read.
func (c *Client) GenerateStructured(ctx context.Context, systemPrompt, userMessage string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &insight.BackendError{Kind: insight.BackendTransport, Reason: "rate limiter wait", Err: err}
		}
	}

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		System: systemPrompt,
		Prompt: userMessage,
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, &insight.BackendError{Kind: insight.BackendTransport, Reason: "marshaling request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, &insight.BackendError{Kind: insight.BackendTransport, Reason: "creating request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &insight.BackendError{Kind: insight.BackendTransport, Reason: "sending request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		reason := fmt.Sprintf("status %d: %s", resp.StatusCode, string(bodyBytes))
		kind := insight.BackendTransport
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			kind = insight.BackendRefused
		}
		return nil, &insight.BackendError{Kind: kind, Reason: reason}
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, &insight.BackendError{Kind: insight.BackendMalformed, Reason: "decoding response envelope", Err: err}
	}

	out := strings.TrimSpace(genResp.Response)
	if out == "" {
		return nil, &insight.BackendError{Kind: insight.BackendRefused, Reason: "empty completion"}
	}

	return []byte(out), nil
}

// HealthCheck checks if the backend is reachable
func (c *Client) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("connecting to backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	return nil
}

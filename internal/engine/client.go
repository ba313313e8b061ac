/*
PURPOSE:
  Streaming HTTP client for the target endpoint.
  Executes one scenario request and turns the streamed response into a
  Result record, timing included.

REQUIREMENTS:
  User-specified:
  - Stream responses incrementally; record time-to-first-token on the first
    token event.
  - Prefer explicit usage token counts over the locally-incremented counter.
  - A request past its timeout is aborted and recorded as failed; siblings
    in the same batch are unaffected.

  Implementation-discovered:
  - Per-request failures are data, not errors: Execute always returns a
    Result and never an error.
  - Malformed individual stream lines are transport noise; skip them at
    Debug level without failing the request (garbage resilience).
  - Only include payload fields the scenario actually sets; never send
    nulls for absent optional fields.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go
  - Uses: internal/config, internal/model, internal/pricing, internal/output

ERROR HANDLING:
  - Failure conditions (non-success status, absent body, timeout, transport
    error) populate Result.Error and Success=false.

IMPLEMENTATION RULES:
  - Use net/http with a per-request context deadline; the shared http.Client
    carries no global timeout.
  - Parse the stream through StreamDecoder, one pass per request.

USAGE:
  c := engine.NewClient(cfg)
  res := c.Execute(ctx, sc)

SELF-HEALING INSTRUCTIONS:
  - If the endpoint changes its event vocabulary, update the switch in
    consumeStream.

RELATED FILES:
  - internal/engine/stream.go
  - internal/engine/runner.go

MAINTENANCE:
  - Update for new endpoint payload fields.
*/

package engine

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

	"github.com/google/uuid"

	"github.com/quillreader/streambench/internal/config"
	"github.com/quillreader/streambench/internal/model"
	"github.com/quillreader/streambench/internal/output"
	"github.com/quillreader/streambench/internal/pricing"
)

// Client issues streaming requests against the configured endpoint.
type Client struct {
	cfg  *config.Config
	http *http.Client
}

// NewClient creates a Client. The http.Client carries no global timeout;
// each request gets its own context deadline so one slow request cannot
// shorten the budget of another.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{},
	}
}

// Execute runs one scenario request to completion. It always returns a
// settled Result; failures are recorded in the Result, never raised.
func (c *Client) Execute(ctx context.Context, sc model.Scenario) model.Result {
	start := time.Now()
	res := model.Result{
		RequestID: uuid.NewString(),
		Scenario:  sc.Name,
		StartTime: start,
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout.Duration())
	defer cancel()

	reqBody, err := json.Marshal(buildPayload(sc))
	if err != nil {
		return settle(res, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(), bytes.NewReader(reqBody))
	if err != nil {
		return settle(res, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return settle(res, c.errorMessage(ctx, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return settle(res, fmt.Sprintf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet))))
	}
	if resp.Body == http.NoBody {
		return settle(res, "response body is empty")
	}

	if err := c.consumeStream(resp.Body, start, &res); err != nil {
		return settle(res, c.errorMessage(ctx, err))
	}

	res.CostUSD = pricing.Cost(c.cfg.Model, res.InputTokens, res.OutputTokens)
	res.Success = true
	res.EndTime = time.Now()
	res.LatencyMs = float64(res.EndTime.Sub(start)) / float64(time.Millisecond)

	output.Logger.Debug("request complete",
		"scenario", sc.Name,
		"latency_ms", res.LatencyMs,
		"tokens", res.TotalTokens,
	)
	return res
}

// consumeStream reads the event stream into res. It returns an error only
// for a broken transport; malformed payload lines are skipped.
func (c *Client) consumeStream(body io.Reader, start time.Time, res *model.Result) error {
	dec := NewStreamDecoder(body)

	var content strings.Builder
	tokenCount := 0

	for {
		ev, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch ev.Name {
		case "token":
			var tok struct {
				Content string `json:"content"`
			}
			if err := json.Unmarshal(ev.Data, &tok); err != nil {
				output.Logger.Debug("skipping invalid stream chunk", "data", string(ev.Data))
				continue
			}
			if res.TTFTMs == nil {
				ttft := float64(time.Since(start)) / float64(time.Millisecond)
				res.TTFTMs = &ttft
			}
			content.WriteString(tok.Content)
			tokenCount++

		case "sources":
			if !json.Valid(ev.Data) {
				output.Logger.Debug("skipping invalid sources chunk", "data", string(ev.Data))
				continue
			}
			res.Sources = append(json.RawMessage(nil), ev.Data...)

		case "usage":
			var u struct {
				PromptTokens     int `json:"prompt_tokens"`
				CompletionTokens int `json:"completion_tokens"`
				TotalTokens      int `json:"total_tokens"`
			}
			if err := json.Unmarshal(ev.Data, &u); err != nil {
				output.Logger.Debug("skipping invalid usage chunk", "data", string(ev.Data))
				continue
			}
			res.Usage = append(json.RawMessage(nil), ev.Data...)
			res.InputTokens = u.PromptTokens
			if u.CompletionTokens > 0 {
				res.OutputTokens = u.CompletionTokens
			}
			res.TotalTokens = u.TotalTokens

		default:
			// Unknown event kind, ignore.
		}
	}

	res.Content = content.String()
	if res.OutputTokens == 0 {
		res.OutputTokens = tokenCount
	}
	if res.TotalTokens == 0 {
		res.TotalTokens = res.InputTokens + res.OutputTokens
	}
	return nil
}

// errorMessage maps a transport error to the recorded failure message,
// naming the timeout explicitly when the deadline was the cause.
func (c *Client) errorMessage(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return fmt.Sprintf("request timed out after %s", c.cfg.Timeout)
	}
	return err.Error()
}

func (c *Client) requestURL() string {
	return strings.TrimSuffix(c.cfg.APIBase, "/") + "/" + strings.TrimPrefix(c.cfg.Endpoint, "/")
}

// buildPayload maps a scenario to the request body, omitting unset fields.
func buildPayload(sc model.Scenario) map[string]any {
	payload := make(map[string]any)
	if sc.BookID != "" {
		payload["bookId"] = sc.BookID
	}
	if sc.Intent != "" {
		payload["intent"] = sc.Intent
	}
	if sc.Query != "" {
		payload["query"] = sc.Query
	}
	if sc.Selection != "" {
		payload["selection"] = sc.Selection
	}
	if sc.TargetLang != "" {
		payload["targetLang"] = sc.TargetLang
	}
	if sc.EnhanceType != "" {
		payload["enhanceType"] = sc.EnhanceType
	}
	return payload
}

// settle finalizes a failed result with its end time and latency.
func settle(res model.Result, msg string) model.Result {
	res.EndTime = time.Now()
	res.LatencyMs = float64(res.EndTime.Sub(res.StartTime)) / float64(time.Millisecond)
	res.Error = msg
	return res
}

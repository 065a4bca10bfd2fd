package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"time"
)

// DefaultTimeout bounds every outbound call a tool makes to its backing API
// or CLI. The dispatch layer itself imposes no timeout.
const DefaultTimeout = 30 * time.Second

// Invoker is the shared outbound HTTP helper for API-backed tools.
type Invoker struct {
	client *http.Client
}

// NewInvoker returns an Invoker with the default 30s timeout.
func NewInvoker() *Invoker {
	return &Invoker{
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

// APIResponse is the decoded outcome of an outbound API call.
type APIResponse struct {
	StatusCode int
	Body       any
}

// CallJSON performs an HTTP request with a JSON body (if body is non-nil)
// and decodes a JSON response. Non-2xx statuses are returned in the
// response, not as errors; the caller decides whether that is a tool-level
// failure.
func (inv *Invoker) CallJSON(ctx context.Context, method, url string, headers map[string]string, body any) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := inv.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	out := &APIResponse{StatusCode: resp.StatusCode}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out.Body); err != nil {
			// Some endpoints return plain text on error paths.
			out.Body = string(data)
		}
	}
	return out, nil
}

// CallForm performs a POST with a form-encoded body (Stripe-style APIs).
func (inv *Invoker) CallForm(ctx context.Context, url string, headers map[string]string, form string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte(form)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := inv.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	out := &APIResponse{StatusCode: resp.StatusCode}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out.Body); err != nil {
			out.Body = string(data)
		}
	}
	return out, nil
}

// CLIResult is the captured outcome of a CLI-backed tool invocation.
type CLIResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
}

// RunCLI executes a subprocess under the default timeout. The process is
// killed when the deadline expires. A nonzero exit is returned in the
// result, not as an error.
func RunCLI(ctx context.Context, name string, args ...string) (*CLIResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("command %s timed out after %s", name, DefaultTimeout)
	}

	res := &CLIResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, err
	}
	return res, nil
}

package narrative

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"
)

// #endregion

// #region interface

// TextGenerator is the capability boundary to the external text-generation
// runtime. Implementations block until completion or ctx deadline.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// #endregion

// #region process-generator

// ProcessGenerator runs the local model runtime as a subprocess
// (`<binary> run <model>`) with the prompt on stdin. The subprocess is
// killed when the context deadline fires.
type ProcessGenerator struct {
	Binary string // defaults to "ollama"
}

// Generate implements TextGenerator over a blocking subprocess call.
func (g *ProcessGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	binary := g.Binary
	if binary == "" {
		binary = "ollama"
	}

	cmd := exec.CommandContext(ctx, binary, "run", model)
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: model %s", ErrTimeout, model)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, binary)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: model %s exit %d: %s",
				ErrModelFailed, model, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("run %s: %w", binary, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// #endregion

// #region http-generator

// HTTPGenerator calls the model runtime's HTTP API (Ollama /api/generate,
// non-streaming). Equivalent failure taxonomy to the subprocess adapter:
// deadline, unreachable endpoint, error status.
type HTTPGenerator struct {
	BaseURL string // e.g. http://localhost:11434
	Client  *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate implements TextGenerator over a blocking HTTP request.
func (g *HTTPGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	client := g.Client
	if client == nil {
		client = &http.Client{}
	}

	body, err := json.Marshal(generateRequest{Model: model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(g.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: model %s", ErrTimeout, model)
		}
		return "", fmt.Errorf("%w: %s unreachable: %v", ErrNotFound, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: model %s status %d: %s",
			ErrModelFailed, model, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}

// #endregion

// #region default-timeout

// DefaultTimeout bounds a model call when the config leaves it unset.
const DefaultTimeout = 10 * time.Minute

// #endregion

package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fishwatch/internal/logger"
)

// deepThinkingPrefix marks prompts that should run in deep-thinking mode.
const deepThinkingPrefix = "[深度思考模式] "

// Client calls an Ollama-compatible text generation API.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL, model string, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		logger: log,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate asks the model for an answer to prompt. deepThinking prefixes the
// prompt with the deep-thinking marker. The call is not retried; transient
// failures surface to the caller.
func (c *Client) Generate(ctx context.Context, prompt string, deepThinking bool) (string, error) {
	if deepThinking {
		prompt = deepThinkingPrefix + prompt
	}

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	return strings.TrimSpace(out.Response), nil
}

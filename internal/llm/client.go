package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// LLMClient define la interfaz para generar respuestas con un LLM.
// El timeout lo impone el llamador via ctx.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	ErrRateLimited   = errors.New("llm rate limited")
	ErrEmptyResponse = errors.New("llm empty response")
	ErrUnavailable   = errors.New("llm unavailable")
	ErrUnauthorized  = errors.New("llm credentials rejected")
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	// maxResponseBytes acota lo que se lee del proveedor; una lista de titulos cabe sobrada.
	maxResponseBytes = 1 << 20
	errorBodyPreview = 512
)

// HTTPOption ajusta un HTTPClient al construirlo.
type HTTPOption func(*HTTPClient)

// WithHTTPDoer reemplaza el *http.Client (tests, transportes con proxy).
func WithHTTPDoer(doer *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithSystemPrompt antepone un mensaje de sistema a cada pedido.
func WithSystemPrompt(prompt string) HTTPOption {
	return func(c *HTTPClient) { c.system = strings.TrimSpace(prompt) }
}

// WithTemperature fija la temperatura de muestreo.
func WithTemperature(t float64) HTTPOption {
	return func(c *HTTPClient) { c.temperature = &t }
}

// HTTPClient habla con cualquier endpoint /chat/completions compatible con OpenAI.
type HTTPClient struct {
	baseURL     string
	apiKey      string
	model       string
	system      string
	temperature *float64
	doer        *http.Client
	logger      *zap.Logger
}

// NewHTTPClient arma el cliente. Sin timeout propio: manda el ctx del llamador.
func NewHTTPClient(baseURL, apiKey, model string, logger *zap.Logger, opts ...HTTPOption) *HTTPClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		doer:    http.DefaultClient,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(c.buildRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("llm request: %w", ctx.Err())
		}
		return "", fmt.Errorf("llm request: %w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", c.statusError(resp.StatusCode, raw)
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("llm api error: %s", cr.Error.Message)
	}

	for _, choice := range cr.Choices {
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, nil
		}
	}
	return "", ErrEmptyResponse
}

func (c *HTTPClient) buildRequest(prompt string) chatRequest {
	msgs := make([]chatMessage, 0, 2)
	if c.system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: c.system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: prompt})
	return chatRequest{Model: c.model, Messages: msgs, Temperature: c.temperature}
}

func (c *HTTPClient) statusError(status int, body []byte) error {
	if len(body) > errorBodyPreview {
		body = body[:errorBodyPreview]
	}
	c.logger.Warn("llm error status",
		zap.Int("status", status),
		zap.String("model", c.model),
		zap.ByteString("body", body),
	)

	var sentinel error
	switch {
	case status == http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = ErrUnauthorized
	case status >= 500:
		sentinel = ErrUnavailable
	default:
		return fmt.Errorf("llm http error: status=%d", status)
	}
	return fmt.Errorf("llm http error: status=%d: %w", status, sentinel)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

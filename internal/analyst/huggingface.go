package analyst

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const huggingFaceBaseURL = "https://api-inference.huggingface.co/models"

// defaultHFModels is the fallback chain tried in order until one answers.
var defaultHFModels = []string{
	"microsoft/DialoGPT-large",
	"google/flan-t5-xxl",
	"bigscience/bloom-7b1",
	"facebook/blenderbot-400M-distill",
}

// HuggingFaceClient implements Generator against the Hugging Face inference
// API, walking a chain of models until one produces text. A 503 means the
// model is still loading; the client waits once and moves on.
type HuggingFaceClient struct {
	BaseURL string
	Models  []string

	apiKey    string
	client    *http.Client
	logger    *slog.Logger
	loadDelay time.Duration
}

// NewHuggingFaceClient creates an inference-API generator. Fails immediately
// when no API key is configured; this is not retried.
func NewHuggingFaceClient(apiKey, proxyURL string, models []string, logger *slog.Logger) (*HuggingFaceClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(models) == 0 {
		models = defaultHFModels
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HuggingFaceClient{
		BaseURL: huggingFaceBaseURL,
		Models:  models,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
		logger:    logger,
		loadDelay: 5 * time.Second,
	}, nil
}

func (c *HuggingFaceClient) Name() string { return "huggingface" }

type hfRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxNewTokens int     `json:"max_new_tokens"`
		Temperature  float64 `json:"temperature"`
		DoSample     bool    `json:"do_sample"`
	} `json:"parameters"`
}

type hfGenerated struct {
	GeneratedText string `json:"generated_text"`
}

// Generate walks the model chain and returns the first generated text.
func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, mdl := range c.Models {
		text, err := c.tryModel(ctx, mdl, prompt)
		if err == nil && text != "" {
			return text, nil
		}
		if err != nil {
			lastErr = err
			c.logger.Warn("inference model failed", "model", mdl, "error", err)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no model produced text")
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

func (c *HuggingFaceClient) tryModel(ctx context.Context, mdl, prompt string) (string, error) {
	payload := hfRequest{Inputs: prompt}
	payload.Parameters.MaxNewTokens = 500
	payload.Parameters.Temperature = 0.7
	payload.Parameters.DoSample = true

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// Two passes: a 503 means the model is still loading, wait once and retry.
	for pass := 0; pass < 2; pass++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.BaseURL+"/"+mdl, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("inference call: %w", err)
		}

		if resp.StatusCode == http.StatusServiceUnavailable {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.loadDelay):
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return "", fmt.Errorf("inference call: status %d, body: %s", resp.StatusCode, string(respBody))
		}

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}
		return parseHFResponse(raw)
	}
	return "", fmt.Errorf("model still loading")
}

// parseHFResponse accepts both response shapes the inference API produces:
// a bare object or an array of objects with generated_text.
func parseHFResponse(raw []byte) (string, error) {
	var arr []hfGenerated
	if err := json.Unmarshal(raw, &arr); err == nil && len(arr) > 0 {
		return arr[0].GeneratedText, nil
	}
	var single hfGenerated
	if err := json.Unmarshal(raw, &single); err == nil && single.GeneratedText != "" {
		return single.GeneratedText, nil
	}
	return "", fmt.Errorf("unrecognized response shape: %s", string(raw[:min(len(raw), 200)]))
}

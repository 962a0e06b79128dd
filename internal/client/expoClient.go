package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"food-ordering-api/internal/config"
)

type PushClient interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

type expoClientImpl struct {
	httpClient *http.Client
	pushURL    string
}

func NewExpoClient(expoCfg *config.Expo) PushClient {
	return &expoClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		pushURL: expoCfg.PushURL,
	}
}

type expoPushMessage struct {
	To    []string          `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func (c *expoClientImpl) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	payload, err := json.Marshal(&expoPushMessage{
		To:    tokens,
		Title: title,
		Body:  body,
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("expo push: status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

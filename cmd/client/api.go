package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"legifai-be/internal/dto"
	"legifai-be/internal/pkg/serverutils"
)

// apiClient talks to a running legifai-be server.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		// Generation can take a while on local models.
		http: &http.Client{Timeout: 3 * time.Minute},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env serverutils.BaseResponse[json.RawMessage]
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("unexpected response (%s): %w", res.Status, err)
	}
	if res.StatusCode >= 300 || !env.Success {
		return fmt.Errorf("%s: %s", res.Status, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *apiClient) Health(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check returned %s", res.Status)
	}
	var out map[string]string
	return out, json.NewDecoder(res.Body).Decode(&out)
}

func (c *apiClient) NewSession(ctx context.Context) (string, error) {
	var out dto.CreateSessionResponse
	err := c.do(ctx, http.MethodPost, "/api/chat/v1/sessions", nil, &out)
	return out.SessionId, err
}

func (c *apiClient) Invoke(ctx context.Context, sessionID, message string) (*dto.InvokeResponse, error) {
	var out dto.InvokeResponse
	err := c.do(ctx, http.MethodPost, "/api/chat/v1/invoke", dto.InvokeRequest{SessionId: sessionID, Message: message}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) History(ctx context.Context, sessionID string) (*dto.SessionHistoryResponse, error) {
	var out dto.SessionHistoryResponse
	if err := c.do(ctx, http.MethodGet, "/api/chat/v1/sessions/"+sessionID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Clear(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/v1/sessions/"+sessionID, nil, nil)
}

func (c *apiClient) Ingest(ctx context.Context, source, content string) error {
	return c.do(ctx, http.MethodPost, "/api/documents/v1", dto.IngestStatuteRequest{Source: source, Content: content}, nil)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/chatmate/internal/errors"
	"github.com/diogo/chatmate/internal/models"
)

// Chat sends one user message to POST /chat and returns the raw assistant reply.
// The reply is returned as the backend sent it; citation stripping is up to the caller.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apierrors.ErrEmptyMessage
	}
	return c.postJSON(ctx, "chat", models.EndpointChat, models.ChatRequest{Message: message})
}

// AskWithContext asks a question about extracted page text via POST /ask_with_context.
func (c *Client) AskWithContext(ctx context.Context, message, pageText string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apierrors.ErrEmptyMessage
	}
	return c.postJSON(ctx, "ask", models.EndpointAskWithContext, models.AskRequest{
		Message:  message,
		PageText: pageText,
	})
}

func (c *Client) postJSON(ctx context.Context, operation, endpoint string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	req, err := fhttp.NewRequest(fhttp.MethodPost, c.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	body, err := c.do(ctx, req, operation, endpoint)
	if err != nil {
		return "", err
	}

	return parseReply(body)
}

// parseReply extracts the "response" string. A missing, non-string or empty
// value is a parse error.
func parseReply(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response body is not valid JSON", "")
	}

	reply := gjson.GetBytes(body, PathResponse)
	if !reply.Exists() {
		if msg := gjson.GetBytes(body, PathError); msg.Exists() {
			return "", apierrors.NewParseError("backend reported: "+msg.String(), PathError)
		}
		return "", apierrors.NewParseError("missing field", PathResponse)
	}
	if reply.Type != gjson.String {
		return "", apierrors.NewParseError("expected string", PathResponse)
	}
	if reply.Str == "" {
		return "", apierrors.NewParseError("empty reply", PathResponse)
	}

	return reply.Str, nil
}

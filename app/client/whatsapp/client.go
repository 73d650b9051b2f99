// Package whatsapp talks to the Graph API for outbound messages and defines
// the inbound webhook payload types.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"nspire/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
)

type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	return &Client{
		cfg: do.MustInvoke[*config.Config](di),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// SendText delivers one text reply to a recipient. Transport, auth and the
// Graph API envelope all live here; callers only hand over (to, text).
func (c *Client) SendText(ctx context.Context, to, text string) error {
	if c.cfg.WhatsApp.DisableSending {
		slog.Info("Replied to message (sending disabled)",
			"to", to,
			"text", text)
		return nil
	}

	body, err := json.Marshal(sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             TextBody{Body: text},
	})
	if err != nil {
		return oops.Errorf("failed to marshal send request: %w", err)
	}

	url := c.cfg.WhatsApp.BaseURL + "/" + c.cfg.WhatsApp.PhoneNumberID + "/messages"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return oops.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.WhatsApp.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return oops.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return oops.
			With("status", resp.StatusCode).
			With("body", string(data)).
			Errorf("graph api rejected the message")
	}

	var parsed sendResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return oops.Errorf("failed to decode send response: %w", err)
	}

	slog.Info("Replied to message",
		"to", to,
		"text", text)

	return nil
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"spotwatch/internal/booking"
	appLog "spotwatch/internal/log"
)

const defaultAPIBase = "https://api.telegram.org"

// ConfigurationError reports a missing bot token or chat id at send
// time. Dry-run mode never triggers it.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return "telegram " + e.Field + " is not set"
}

// sendMessageRequest is the sendMessage wire body.
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Sender posts plain-text messages to a Telegram chat through the Bot
// API.
type Sender struct {
	http    *http.Client
	apiBase string
}

// NewSender creates a Sender with the same fixed request deadline the
// rest of the pipeline uses.
func NewSender() *Sender {
	return &Sender{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiBase: defaultAPIBase,
	}
}

// Send delivers message to the chat identified by chatID using the
// given bot token. Both credentials must be set; a non-2xx response is
// a transport failure. No retries.
func (s *Sender) Send(ctx context.Context, token, chatID, message string) error {
	if token == "" {
		return &ConfigurationError{Field: "bot token"}
	}
	if chatID == "" {
		return &ConfigurationError{Field: "chat id"}
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  message,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return err
	}

	reqURL := s.apiBase + "/bot" + token + "/sendMessage"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Keep the bot token out of error messages and logs.
		return &booking.TransportError{
			URL:        s.apiBase + "/bot...(redacted)/sendMessage",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	// Drain the delivery confirmation so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	appLog.Info("telegram message sent", "chat_id", chatID, "chars", len(message))
	return nil
}

// SendSummary formats spots and delivers the summary when both
// credentials are set. It reports whether a delivery was attempted so
// watch-style callers can keep running without Telegram configured.
func (s *Sender) SendSummary(ctx context.Context, token, chatID string, spots []booking.AvailableSpot) (bool, error) {
	if token == "" || chatID == "" {
		return false, nil
	}
	return true, s.Send(ctx, token, chatID, FormatSummary(spots))
}

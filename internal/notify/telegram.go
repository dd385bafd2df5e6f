package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram sends messages through the Bot API.
type Telegram struct {
	token  string
	chatID string
	base   string
	hc     *http.Client
}

func NewTelegram(token, chatID string) (*Telegram, error) {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(chatID) == "" {
		return nil, errors.New("telegram token and chat id are required")
	}
	return &Telegram{
		token:  token,
		chatID: chatID,
		base:   telegramAPIBase,
		hc:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (t *Telegram) Notify(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    message,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.base, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.hc.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("telegram send: status %d", resp.StatusCode)
	}
	return nil
}

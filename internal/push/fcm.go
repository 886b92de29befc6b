// Package push delivers notifications to devices through FCM's HTTP API.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/syntherra/PooDough/internal/models"
)

// Sender pushes one notification to one device token and returns the
// provider's message id.
type Sender interface {
	Send(ctx context.Context, token string, n models.Notification) (string, error)
}

// FCMSender talks to the FCM legacy HTTP endpoint with a server key.
type FCMSender struct {
	client    *http.Client
	endpoint  string
	serverKey string
}

func NewFCMSender(client *http.Client, endpoint string, serverKey string) *FCMSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &FCMSender{
		client:    client,
		endpoint:  endpoint,
		serverKey: serverKey,
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

func (s *FCMSender) Send(ctx context.Context, token string, n models.Notification) (string, error) {
	payload, err := json.Marshal(fcmMessage{
		To: token,
		Notification: fcmNotification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
	})
	if err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("push rejected: status %d", resp.StatusCode)
	}

	var parsed fcmResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Success < 1 || len(parsed.Results) == 0 {
		reason := "unknown"
		if len(parsed.Results) > 0 && parsed.Results[0].Error != "" {
			reason = parsed.Results[0].Error
		}
		return "", fmt.Errorf("push failed: %s", reason)
	}

	return parsed.Results[0].MessageID, nil
}

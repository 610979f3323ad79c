// Package notifier доставляет события ответов внешнему webhook-приемнику.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"telegram-personal-api/internal/domain"
)

// deliveryTimeout ограничивает время одной доставки вместе с чтением ответа.
const deliveryTimeout = 30 * time.Second

// webhookPayload — тело POST-запроса к приемнику.
type webhookPayload struct {
	Event     string              `json:"event"`
	EventID   string              `json:"event_id"`
	Timestamp string              `json:"timestamp"`
	Chat      domain.ChatInfo     `json:"chat"`
	Message   payloadMessage      `json:"message"`
	From      domain.FromUser     `json:"from"`
	ReplyTo   payloadReplyMessage `json:"reply_to_message"`
}

type payloadMessage struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Date string `json:"date"`
}

type payloadReplyMessage struct {
	ID             int    `json:"id"`
	Text           string `json:"text,omitempty"`
	Date           string `json:"date,omitempty"`
	SenderID       int64  `json:"sender_id,omitempty"`
	SenderUsername string `json:"sender_username,omitempty"`
}

// WebhookNotifier отправляет каждое событие одним POST-запросом.
// Любая неудача доставки журналируется и поглощается: путь обработки
// входящих сообщений не должен зависеть от доступности приемника.
type WebhookNotifier struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

// New создает новый экземпляр WebhookNotifier.
func New(url string, log *slog.Logger) *WebhookNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: deliveryTimeout},
		log:    log,
	}
}

// Dispatch доставляет одно событие. Повторных попыток нет: приемник
// получает событие не более одного раза.
func (n *WebhookNotifier) Dispatch(ctx context.Context, event domain.ReplyEvent) {
	payload := webhookPayload{
		Event:     "reply_received",
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Chat:      event.Chat,
		Message: payloadMessage{
			ID:   event.MessageID,
			Text: event.Text,
			Date: event.Date.UTC().Format(time.RFC3339),
		},
		From: event.From,
		ReplyTo: payloadReplyMessage{
			ID:             event.ReplyTo.ID,
			Text:           event.ReplyTo.Text,
			SenderID:       event.ReplyTo.SenderID,
			SenderUsername: event.ReplyTo.SenderUsername,
		},
	}
	if !event.ReplyTo.Date.IsZero() {
		payload.ReplyTo.Date = event.ReplyTo.Date.UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.log.ErrorContext(ctx, "Не удалось сериализовать событие", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		n.log.ErrorContext(ctx, "Не удалось построить запрос к приемнику",
			"url", n.url, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.WarnContext(ctx, "Доставка события не удалась",
			"event_id", payload.EventID, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.log.WarnContext(ctx, "Приемник отверг событие",
			"event_id", payload.EventID, "status", resp.StatusCode)
		return
	}

	n.log.InfoContext(ctx, "Событие доставлено",
		"event_id", payload.EventID, "chat_id", event.Chat.ID, "message_id", event.MessageID)
}

// Package ports определяет интерфейсы между слоями приложения.
package ports

import (
	"context"
	"time"

	"telegram-personal-api/internal/domain"
)

// ReplyTracker определяет контракт учета отправленных сообщений,
// для которых отслеживаются ответы.
type ReplyTracker interface {
	// Record регистрирует отправленное сообщение.
	Record(chatID int64, messageID int, now time.Time)
	// IsTracked сообщает, отслеживается ли сообщение в данном чате.
	IsTracked(chatID int64, messageID int) bool
}

// EventDispatcher доставляет событие ответа внешнему приемнику.
// Реализация обязана поглощать любые ошибки доставки.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.ReplyEvent)
}

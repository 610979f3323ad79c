package domain

import (
	"errors"
	"fmt"
)

// Таксономия ошибок внешнего Telegram API. Обработчики HTTP переводят
// каждый вид в фиксированный статус ответа.
var (
	// ErrInvalidTarget — неизвестный или некорректный идентификатор чата/пользователя.
	ErrInvalidTarget = errors.New("invalid chat or user reference")
	// ErrAccessDenied — аккаунт не участник чата либо канал приватный.
	ErrAccessDenied = errors.New("access denied")
	// ErrSessionExpired — сессия аккаунта истекла или отозвана.
	ErrSessionExpired = errors.New("session expired or invalid")
	// ErrMalformedRequest — запрос отклонен удаленной стороной как некорректный.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrNotFound — сообщение или кнопка отсутствует.
	ErrNotFound = errors.New("not found")
)

// RateLimitedError возвращается при активном ограничении FLOOD_WAIT
// и переносит длительность ожидания в секундах.
type RateLimitedError struct {
	Seconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, wait %d seconds", e.Seconds)
}

package telegram

import (
	"errors"
	"fmt"

	"github.com/gotd/td/tgerr"

	"telegram-personal-api/internal/domain"
)

// mapRPCError переводит ошибку Telegram RPC в доменную таксономию,
// сохраняя исходную ошибку в цепочке. Неизвестные ошибки проходят
// без изменений.
func mapRPCError(err error) error {
	if err == nil {
		return nil
	}

	if wait, ok := tgerr.AsFloodWait(err); ok {
		return &domain.RateLimitedError{Seconds: int(wait.Seconds())}
	}

	switch {
	case tgerr.Is(err,
		"PEER_ID_INVALID",
		"CHAT_ID_INVALID",
		"CHANNEL_INVALID",
		"USERNAME_INVALID",
		"USERNAME_NOT_OCCUPIED",
		"USER_ID_INVALID",
	):
		return fmt.Errorf("%w: %v", domain.ErrInvalidTarget, err)
	case tgerr.Is(err,
		"USER_NOT_PARTICIPANT",
		"CHANNEL_PRIVATE",
		"CHAT_ADMIN_REQUIRED",
		"CHAT_WRITE_FORBIDDEN",
	):
		return fmt.Errorf("%w: %v", domain.ErrAccessDenied, err)
	case tgerr.Is(err,
		"AUTH_KEY_UNREGISTERED",
		"SESSION_EXPIRED",
		"SESSION_REVOKED",
		"USER_DEACTIVATED",
	):
		return fmt.Errorf("%w: %v", domain.ErrSessionExpired, err)
	case tgerr.Is(err,
		"MESSAGE_ID_INVALID",
		"MSG_ID_INVALID",
		"MESSAGE_EMPTY",
		"MESSAGE_TOO_LONG",
		"DATA_INVALID",
		"BUTTON_DATA_INVALID",
	):
		return fmt.Errorf("%w: %v", domain.ErrMalformedRequest, err)
	}

	// Остальные ошибки с кодом 400 — некорректный запрос по определению.
	var rpcErr *tgerr.Error
	if errors.As(err, &rpcErr) && rpcErr.Code == 400 {
		return fmt.Errorf("%w: %v", domain.ErrMalformedRequest, err)
	}

	return err
}

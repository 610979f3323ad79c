package services

import (
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-personal-api/internal/domain"
)

func messageWithKeyboard() *tg.Message {
	return &tg.Message{
		ID: 42,
		ReplyMarkup: &tg.ReplyInlineMarkup{
			Rows: []tg.KeyboardButtonRow{
				{Buttons: []tg.KeyboardButtonClass{
					&tg.KeyboardButtonCallback{Text: "✅ Yes please", Data: []byte("cb:42")},
					&tg.KeyboardButtonCallback{Text: "Нет", Data: []byte("cb:43")},
				}},
				{Buttons: []tg.KeyboardButtonClass{
					&tg.KeyboardButtonURL{Text: "Открыть сайт", URL: "https://example.com"},
				}},
			},
		},
	}
}

func TestButtonServiceListButtons(t *testing.T) {
	svc := NewButtonService(&mockGateway{}, nil)

	t.Run("KeyboardCoordinates", func(t *testing.T) {
		buttons := svc.ListButtons(messageWithKeyboard())
		require.Len(t, buttons, 3)

		assert.Equal(t, "✅ Yes please", buttons[0].Text)
		assert.Equal(t, "cb:42", buttons[0].CallbackData)
		assert.Equal(t, 0, buttons[0].Row)
		assert.Equal(t, 0, buttons[0].Column)

		assert.Equal(t, 1, buttons[1].Column)

		assert.Equal(t, "https://example.com", buttons[2].URL)
		assert.Equal(t, 1, buttons[2].Row)
		assert.Equal(t, 0, buttons[2].Column)
	})

	t.Run("NoKeyboard", func(t *testing.T) {
		assert.Empty(t, svc.ListButtons(&tg.Message{ID: 1}))
		assert.Empty(t, svc.ListButtons(nil))
	})
}

func TestButtonServiceFindButton(t *testing.T) {
	svc := NewButtonService(&mockGateway{}, nil)
	msg := messageWithKeyboard()

	t.Run("TextSubstringCaseInsensitive", func(t *testing.T) {
		b, err := svc.FindButton(msg, "yes", "")
		require.NoError(t, err)
		assert.Equal(t, "cb:42", b.CallbackData)
	})

	t.Run("DataExactMatch", func(t *testing.T) {
		b, err := svc.FindButton(msg, "", "cb:42")
		require.NoError(t, err)
		assert.Equal(t, "✅ Yes please", b.Text)
	})

	t.Run("DataSubstringDoesNotMatch", func(t *testing.T) {
		_, err := svc.FindButton(msg, "", "cb:4")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("TextNotFound", func(t *testing.T) {
		_, err := svc.FindButton(msg, "maybe", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestButtonServiceLocate(t *testing.T) {
	ctx := context.Background()

	t.Run("PointLookupSucceeds", func(t *testing.T) {
		want := &tg.Message{ID: 7}
		gateway := &mockGateway{
			GetMessageFunc: func(_ context.Context, chatRef string, msgID int) (*tg.Message, map[int64]*tg.User, error) {
				assert.Equal(t, "123", chatRef)
				assert.Equal(t, 7, msgID)
				return want, nil, nil
			},
		}

		msg, _, err := NewButtonService(gateway, nil).Locate(ctx, "123", 7)
		require.NoError(t, err)
		assert.Same(t, want, msg)
	})

	t.Run("FallsBackToHistory", func(t *testing.T) {
		want := &tg.Message{ID: 7}
		gateway := &mockGateway{
			GetMessageFunc: func(context.Context, string, int) (*tg.Message, map[int64]*tg.User, error) {
				return nil, nil, errors.New("message list empty")
			},
			GetHistoryFunc: func(_ context.Context, _ string, limit int) ([]*tg.Message, map[int64]*tg.User, error) {
				assert.Equal(t, historyFallbackLimit, limit)
				return []*tg.Message{{ID: 9}, want, {ID: 5}}, nil, nil
			},
		}

		msg, _, err := NewButtonService(gateway, nil).Locate(ctx, "123", 7)
		require.NoError(t, err)
		assert.Same(t, want, msg)
	})

	t.Run("NotFoundAnywhere", func(t *testing.T) {
		gateway := &mockGateway{
			GetMessageFunc: func(context.Context, string, int) (*tg.Message, map[int64]*tg.User, error) {
				return nil, nil, errors.New("message list empty")
			},
			GetHistoryFunc: func(context.Context, string, int) ([]*tg.Message, map[int64]*tg.User, error) {
				return []*tg.Message{{ID: 9}}, nil, nil
			},
		}

		_, _, err := NewButtonService(gateway, nil).Locate(ctx, "123", 7)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("HistoryErrorPropagates", func(t *testing.T) {
		gateway := &mockGateway{
			GetMessageFunc: func(context.Context, string, int) (*tg.Message, map[int64]*tg.User, error) {
				return nil, nil, errors.New("lookup failed")
			},
			GetHistoryFunc: func(context.Context, string, int) ([]*tg.Message, map[int64]*tg.User, error) {
				return nil, nil, domain.ErrAccessDenied
			},
		}

		_, _, err := NewButtonService(gateway, nil).Locate(ctx, "123", 7)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})
}

func TestButtonServiceClick(t *testing.T) {
	ctx := context.Background()

	t.Run("CallbackButton", func(t *testing.T) {
		gateway := &mockGateway{
			PressButtonFunc: func(_ context.Context, chatRef string, msgID int, data []byte) (string, error) {
				assert.Equal(t, "123", chatRef)
				assert.Equal(t, 42, msgID)
				assert.Equal(t, []byte("cb:42"), data)
				return "Принято!", nil
			},
		}

		result, err := NewButtonService(gateway, nil).Click(ctx, "123", 42, domain.InlineButton{CallbackData: "cb:42"})
		require.NoError(t, err)
		assert.Equal(t, "Принято!", result)
	})

	t.Run("URLButtonSkipsRemoteCall", func(t *testing.T) {
		gateway := &mockGateway{
			PressButtonFunc: func(context.Context, string, int, []byte) (string, error) {
				t.Fatal("для URL-кнопки удаленный вызов не ожидается")
				return "", nil
			},
		}

		result, err := NewButtonService(gateway, nil).Click(ctx, "123", 42, domain.InlineButton{URL: "https://example.com"})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", result)
	})
}

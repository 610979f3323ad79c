package telegram

import (
	"fmt"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-personal-api/internal/domain"
)

func TestPublicPeerID(t *testing.T) {
	assert.Equal(t, int64(42), PublicPeerID(&tg.PeerUser{UserID: 42}))
	assert.Equal(t, int64(-123), PublicPeerID(&tg.PeerChat{ChatID: 123}))
	assert.Equal(t, int64(-1000000000555), PublicPeerID(&tg.PeerChannel{ChannelID: 555}))
}

func TestPeerStore(t *testing.T) {
	t.Run("UserRoundTrip", func(t *testing.T) {
		s := newPeerStore()
		s.collectUsers([]tg.UserClass{&tg.User{ID: 42, AccessHash: 777}})

		peer, ok := s.inputPeer(42)
		require.True(t, ok)
		user, ok := peer.(*tg.InputPeerUser)
		require.True(t, ok)
		assert.Equal(t, int64(42), user.UserID)
		assert.Equal(t, int64(777), user.AccessHash)
	})

	t.Run("ChannelRoundTrip", func(t *testing.T) {
		s := newPeerStore()
		s.collectChats([]tg.ChatClass{&tg.Channel{ID: 555, AccessHash: 888}})

		peer, ok := s.inputPeer(-1000000000555)
		require.True(t, ok)
		channel, ok := peer.(*tg.InputPeerChannel)
		require.True(t, ok)
		assert.Equal(t, int64(555), channel.ChannelID)
		assert.Equal(t, int64(888), channel.AccessHash)
	})

	t.Run("BasicChat", func(t *testing.T) {
		s := newPeerStore()
		s.collectChats([]tg.ChatClass{&tg.Chat{ID: 123, Title: "Друзья"}})

		peer, ok := s.inputPeer(-123)
		require.True(t, ok)
		chat, ok := peer.(*tg.InputPeerChat)
		require.True(t, ok)
		assert.Equal(t, int64(123), chat.ChatID)
	})

	t.Run("UnknownPeer", func(t *testing.T) {
		s := newPeerStore()
		_, ok := s.inputPeer(99)
		assert.False(t, ok)
	})

	t.Run("CollectEntities", func(t *testing.T) {
		s := newPeerStore()
		s.collectEntities(tg.Entities{
			Users:    map[int64]*tg.User{7: {ID: 7, AccessHash: 1}},
			Channels: map[int64]*tg.Channel{9: {ID: 9, AccessHash: 2}},
		})

		_, ok := s.inputPeer(7)
		assert.True(t, ok)
		_, ok = s.inputPeer(-(channelIDOffset + 9))
		assert.True(t, ok)
	})
}

func TestSentMessageID(t *testing.T) {
	t.Run("ShortSent", func(t *testing.T) {
		id, err := sentMessageID(&tg.UpdateShortSentMessage{ID: 100})
		require.NoError(t, err)
		assert.Equal(t, 100, id)
	})

	t.Run("UpdatesWithMessageID", func(t *testing.T) {
		id, err := sentMessageID(&tg.Updates{
			Updates: []tg.UpdateClass{&tg.UpdateMessageID{ID: 200}},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, id)
	})

	t.Run("UpdatesWithNewChannelMessage", func(t *testing.T) {
		id, err := sentMessageID(&tg.Updates{
			Updates: []tg.UpdateClass{
				&tg.UpdateNewChannelMessage{Message: &tg.Message{ID: 300}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 300, id)
	})

	t.Run("NoMessageID", func(t *testing.T) {
		_, err := sentMessageID(&tg.Updates{})
		assert.Error(t, err)
	})
}

func TestMapRPCError(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, mapRPCError(nil))
	})

	t.Run("FloodWait", func(t *testing.T) {
		err := mapRPCError(tgerr.New(420, "FLOOD_WAIT_17"))
		var rateErr *domain.RateLimitedError
		require.ErrorAs(t, err, &rateErr)
		assert.Equal(t, 17, rateErr.Seconds)
	})

	t.Run("InvalidTarget", func(t *testing.T) {
		err := mapRPCError(tgerr.New(400, "PEER_ID_INVALID"))
		assert.ErrorIs(t, err, domain.ErrInvalidTarget)
	})

	t.Run("AccessDenied", func(t *testing.T) {
		err := mapRPCError(tgerr.New(400, "CHANNEL_PRIVATE"))
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("SessionExpired", func(t *testing.T) {
		err := mapRPCError(tgerr.New(401, "AUTH_KEY_UNREGISTERED"))
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
	})

	t.Run("WrappedError", func(t *testing.T) {
		err := mapRPCError(fmt.Errorf("rpc call: %w", tgerr.New(400, "MESSAGE_ID_INVALID")))
		assert.ErrorIs(t, err, domain.ErrMalformedRequest)
	})

	t.Run("GenericBadRequest", func(t *testing.T) {
		err := mapRPCError(tgerr.New(400, "ENTITY_BOUNDS_INVALID"))
		assert.ErrorIs(t, err, domain.ErrMalformedRequest)
	})

	t.Run("UnknownPassesThrough", func(t *testing.T) {
		orig := fmt.Errorf("connection reset")
		assert.Equal(t, orig, mapRPCError(orig))
	})
}

func TestIsNumericRef(t *testing.T) {
	assert.True(t, isNumericRef("123"))
	assert.True(t, isNumericRef("-100123"))
	assert.False(t, isNumericRef("@username"))
	assert.False(t, isNumericRef("durov"))
	assert.False(t, isNumericRef("-"))
	assert.False(t, isNumericRef(""))
}

func TestDialogInfo(t *testing.T) {
	users := map[int64]*tg.User{
		1: {ID: 1, FirstName: "Иван", LastName: "Петров", Username: "ivan"},
		2: {ID: 2, FirstName: "HelperBot", Bot: true, Username: "helper_bot"},
	}
	chats := map[int64]tg.ChatClass{
		10: &tg.Chat{ID: 10, Title: "Работа"},
		20: &tg.Channel{ID: 20, Title: "Новости", Username: "news", Megagroup: false},
		30: &tg.Channel{ID: 30, Title: "Чат", Megagroup: true},
	}

	t.Run("PrivateUser", func(t *testing.T) {
		info, ok := dialogInfo(&tg.PeerUser{UserID: 1}, users, chats)
		require.True(t, ok)
		assert.Equal(t, domain.ChatInfo{ID: 1, Title: "Иван Петров", Type: "private", Username: "ivan"}, info)
	})

	t.Run("Bot", func(t *testing.T) {
		info, ok := dialogInfo(&tg.PeerUser{UserID: 2}, users, chats)
		require.True(t, ok)
		assert.Equal(t, "bot", info.Type)
	})

	t.Run("Group", func(t *testing.T) {
		info, ok := dialogInfo(&tg.PeerChat{ChatID: 10}, users, chats)
		require.True(t, ok)
		assert.Equal(t, domain.ChatInfo{ID: -10, Title: "Работа", Type: "group"}, info)
	})

	t.Run("Channel", func(t *testing.T) {
		info, ok := dialogInfo(&tg.PeerChannel{ChannelID: 20}, users, chats)
		require.True(t, ok)
		assert.Equal(t, int64(-1000000000020), info.ID)
		assert.Equal(t, "channel", info.Type)
	})

	t.Run("Supergroup", func(t *testing.T) {
		info, ok := dialogInfo(&tg.PeerChannel{ChannelID: 30}, users, chats)
		require.True(t, ok)
		assert.Equal(t, "supergroup", info.Type)
	})

	t.Run("UnknownEntity", func(t *testing.T) {
		_, ok := dialogInfo(&tg.PeerUser{UserID: 99}, users, chats)
		assert.False(t, ok)
	})
}

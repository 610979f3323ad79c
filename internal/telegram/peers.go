package telegram

import (
	"sync"

	"github.com/gotd/td/tg"
)

// channelIDOffset — смещение идентификаторов каналов в публичном формате
// Bot API: канал с внутренним id X снаружи виден как -(1000000000000 + X).
const channelIDOffset = 1_000_000_000_000

// PublicPeerID приводит MTProto-пир к публичному идентификатору чата:
// пользователь > 0, обычная группа -id, канал/супергруппа -100xxxxxxxxxx.
func PublicPeerID(peer tg.PeerClass) int64 {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return p.UserID
	case *tg.PeerChat:
		return -p.ChatID
	case *tg.PeerChannel:
		return -(channelIDOffset + p.ChannelID)
	}
	return 0
}

// peerStore — потокобезопасный кэш access hash'ей, необходимых для
// обращения к пирам по числовому идентификатору. Наполняется из списка
// диалогов, ответов API и сущностей входящих обновлений.
type peerStore struct {
	mu       sync.RWMutex
	users    map[int64]int64
	chats    map[int64]struct{}
	channels map[int64]int64
}

func newPeerStore() *peerStore {
	return &peerStore{
		users:    make(map[int64]int64),
		chats:    make(map[int64]struct{}),
		channels: make(map[int64]int64),
	}
}

// collectUsers запоминает access hash'и пользователей.
func (s *peerStore) collectUsers(users []tg.UserClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			s.users[user.ID] = user.AccessHash
		}
	}
}

// collectChats запоминает группы и каналы.
func (s *peerStore) collectChats(chats []tg.ChatClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chats {
		switch chat := c.(type) {
		case *tg.Chat:
			s.chats[chat.ID] = struct{}{}
		case *tg.Channel:
			s.channels[chat.ID] = chat.AccessHash
		}
	}
}

// collectEntities запоминает сущности, пришедшие вместе с обновлением.
func (s *peerStore) collectEntities(e tg.Entities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range e.Users {
		s.users[id] = u.AccessHash
	}
	for id := range e.Chats {
		s.chats[id] = struct{}{}
	}
	for id, ch := range e.Channels {
		s.channels[id] = ch.AccessHash
	}
}

// inputPeer строит InputPeer по публичному идентификатору чата.
// Возвращает false, если пир аккаунту не известен.
func (s *peerStore) inputPeer(publicID int64) (tg.InputPeerClass, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case publicID > 0:
		hash, ok := s.users[publicID]
		if !ok {
			return nil, false
		}
		return &tg.InputPeerUser{UserID: publicID, AccessHash: hash}, true
	case publicID <= -channelIDOffset:
		channelID := -publicID - channelIDOffset
		hash, ok := s.channels[channelID]
		if !ok {
			return nil, false
		}
		return &tg.InputPeerChannel{ChannelID: channelID, AccessHash: hash}, true
	case publicID < 0:
		chatID := -publicID
		if _, ok := s.chats[chatID]; !ok {
			return nil, false
		}
		return &tg.InputPeerChat{ChatID: chatID}, true
	}
	return nil, false
}

// fromPeer строит InputPeer по MTProto-пиру из уже собранных сущностей.
func (s *peerStore) fromPeer(peer tg.PeerClass) (tg.InputPeerClass, bool) {
	return s.inputPeer(PublicPeerID(peer))
}

// publicIDOfInput возвращает публичный идентификатор чата для InputPeer.
// selfID подставляется для InputPeerSelf.
func publicIDOfInput(peer tg.InputPeerClass, selfID int64) int64 {
	switch p := peer.(type) {
	case *tg.InputPeerUser:
		return p.UserID
	case *tg.InputPeerChat:
		return -p.ChatID
	case *tg.InputPeerChannel:
		return -(channelIDOffset + p.ChannelID)
	case *tg.InputPeerSelf:
		return selfID
	}
	return 0
}

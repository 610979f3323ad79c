// Package tracker реализует ограниченный по времени учет отправленных
// сообщений, для которых нужно отслеживать ответы.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Entry — одна отслеживаемая запись: идентификатор отправленного
// сообщения и момент его регистрации. После создания не изменяется.
type Entry struct {
	MessageID int
	CreatedAt time.Time
}

// Store хранит по каждому чату упорядоченный список отслеживаемых
// записей. Состояние живет только в памяти процесса и при перезапуске
// начинается с нуля.
type Store struct {
	mutex sync.RWMutex
	chats map[int64][]Entry
}

// NewStore создает новый пустой экземпляр Store.
func NewStore() *Store {
	return &Store{
		chats: make(map[int64][]Entry),
	}
}

// Record добавляет запись (messageID, now) в список чата, создавая список
// при необходимости. Дедупликация не выполняется: повторная отправка того
// же идентификатора добавит вторую запись, для сопоставления важен лишь
// факт существования.
func (s *Store) Record(chatID int64, messageID int, now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.chats[chatID] = append(s.chats[chatID], Entry{
		MessageID: messageID,
		CreatedAt: now,
	})
}

// IsTracked сообщает, есть ли в списке чата запись с данным идентификатором.
// Возраст записи не проверяется: фильтрация по времени — работа уборщика,
// поэтому до очередного прохода просроченная запись еще может совпасть.
func (s *Store) IsTracked(chatID int64, messageID int) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, entry := range s.chats[chatID] {
		if entry.MessageID == messageID {
			return true
		}
	}
	return false
}

// Prune удаляет из всех чатов записи с CreatedAt <= now - horizon.
// Чаты, оставшиеся без записей, удаляются целиком, чтобы не копить
// пустые ключи.
func (s *Store) Prune(now time.Time, horizon time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := now.Add(-horizon)
	for chatID, entries := range s.chats {
		kept := entries[:0]
		for _, entry := range entries {
			if entry.CreatedAt.After(cutoff) {
				kept = append(kept, entry)
			}
		}
		if len(kept) == 0 {
			delete(s.chats, chatID)
			continue
		}
		s.chats[chatID] = kept
	}
}

// Size возвращает суммарное число записей по всем чатам.
func (s *Store) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := 0
	for _, entries := range s.chats {
		total += len(entries)
	}
	return total
}

// ChatCount возвращает число чатов, имеющих хотя бы одну запись.
func (s *Store) ChatCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.chats)
}

// StartCleanupTicker запускает тикер для периодического удаления
// просроченных записей. Горутина живет до отмены контекста; паника внутри
// одного прохода логируется и не останавливает цикл.
func (s *Store) StartCleanupTicker(ctx context.Context, interval, horizon time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(horizon)
			}
		}
	}()
}

// sweep выполняет один проход очистки, изолируя возможную панику.
func (s *Store) sweep(horizon time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Проход очистки отслеживаемых сообщений завершился паникой", "panic", r)
		}
	}()
	s.Prune(time.Now(), horizon)
}

package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("NewStore", func(t *testing.T) {
		s := NewStore()
		require.NotNil(t, s)
		assert.Equal(t, 0, s.Size())
		assert.Equal(t, 0, s.ChatCount())
	})

	t.Run("RecordThenIsTracked", func(t *testing.T) {
		s := NewStore()
		now := time.Now()

		s.Record(-100123, 42, now)

		assert.True(t, s.IsTracked(-100123, 42))
		assert.False(t, s.IsTracked(-100123, 43))
		assert.False(t, s.IsTracked(-100124, 42))
	})

	t.Run("RecordAllowsDuplicates", func(t *testing.T) {
		s := NewStore()
		now := time.Now()

		s.Record(1, 7, now)
		s.Record(1, 7, now.Add(time.Minute))

		assert.Equal(t, 2, s.Size())
		assert.True(t, s.IsTracked(1, 7))
	})

	t.Run("IsTrackedIgnoresAgeUntilPrune", func(t *testing.T) {
		s := NewStore()
		now := time.Now()

		// Запись логически просрочена, но уборщик еще не проходил.
		s.Record(5, 99, now.Add(-48*time.Hour))
		assert.True(t, s.IsTracked(5, 99))

		s.Prune(now, 24*time.Hour)
		assert.False(t, s.IsTracked(5, 99))
	})

	t.Run("PruneRemovesOnlyExpired", func(t *testing.T) {
		s := NewStore()
		now := time.Now()
		horizon := 24 * time.Hour

		s.Record(10, 1, now.Add(-25*time.Hour))
		s.Record(10, 2, now.Add(-23*time.Hour))
		s.Record(10, 3, now)

		s.Prune(now, horizon)

		assert.False(t, s.IsTracked(10, 1))
		assert.True(t, s.IsTracked(10, 2))
		assert.True(t, s.IsTracked(10, 3))
	})

	t.Run("PruneRemovesBoundaryEntry", func(t *testing.T) {
		s := NewStore()
		now := time.Now()
		horizon := time.Hour

		// Запись с CreatedAt ровно now-horizon также должна быть удалена.
		s.Record(10, 1, now.Add(-horizon))
		s.Prune(now, horizon)

		assert.False(t, s.IsTracked(10, 1))
	})

	t.Run("PruneDropsEmptyChats", func(t *testing.T) {
		s := NewStore()
		now := time.Now()

		s.Record(1, 1, now.Add(-2*time.Hour))
		s.Record(2, 2, now)

		s.Prune(now, time.Hour)

		assert.Equal(t, 1, s.ChatCount())
		assert.True(t, s.IsTracked(2, 2))
	})

	t.Run("CleanupTickerStopsWithContext", func(t *testing.T) {
		s := NewStore()
		ctx, cancel := context.WithCancel(context.Background())

		s.Record(1, 1, time.Now().Add(-2*time.Hour))
		s.StartCleanupTicker(ctx, 10*time.Millisecond, time.Hour)

		assert.Eventually(t, func() bool {
			return s.Size() == 0
		}, time.Second, 10*time.Millisecond)

		cancel()
	})
}

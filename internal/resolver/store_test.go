package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreGetSet(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)

	rec := Record{
		Symbol:     "NVDA",
		Primary:    "https://cdn/nvda.png",
		Fallbacks:  []string{"https://provider/US/NVDA.png"},
		RecordedAt: time.Now(),
	}

	_, ok := store.Get("NVDA")
	assert.False(t, ok)

	store.Set("NVDA", rec)
	got, ok := store.Get("NVDA")
	assert.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Equal(t, 1, store.Len())

	t.Run("ReplacedWholesale", func(t *testing.T) {
		fresh := rec
		fresh.Primary = "https://cdn/nvda-v2.png"
		fresh.RecordedAt = time.Now()
		store.Set("NVDA", fresh)

		got, ok := store.Get("NVDA")
		assert.True(t, ok)
		assert.Equal(t, "https://cdn/nvda-v2.png", got.Primary)
		assert.Equal(t, 1, store.Len())
	})
}

func TestStoreTTLClasses(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)

	t.Run("SuccessfulRecordOutlivesDegradedTTL", func(t *testing.T) {
		rec := Record{
			Symbol:     "AAPL",
			Primary:    "https://cdn/aapl.png",
			Fallbacks:  []string{"https://provider/US/AAPL.png"},
			RecordedAt: time.Now().Add(-30 * time.Minute),
		}
		store.Set("AAPL", rec)

		_, ok := store.Get("AAPL")
		assert.True(t, ok, "successful record within the long TTL must be live")
	})

	t.Run("DegradedRecordExpiresOnShortTTL", func(t *testing.T) {
		rec := Record{
			Symbol:     "TSLA",
			Fallbacks:  []string{"https://provider/US/TSLA.png"},
			RecordedAt: time.Now().Add(-30 * time.Minute),
			Degraded:   true,
		}
		store.Set("TSLA", rec)

		_, ok := store.Get("TSLA")
		assert.False(t, ok, "degraded record past the short TTL must read as absent")
	})

	t.Run("SuccessfulRecordExpiresOnLongTTL", func(t *testing.T) {
		rec := Record{
			Symbol:     "MSFT",
			Primary:    "https://cdn/msft.png",
			Fallbacks:  []string{"https://provider/US/MSFT.png"},
			RecordedAt: time.Now().Add(-2 * time.Hour),
		}
		store.Set("MSFT", rec)

		_, ok := store.Get("MSFT")
		assert.False(t, ok)
	})

	t.Run("TTLFor", func(t *testing.T) {
		assert.Equal(t, time.Hour, store.TTLFor(Record{}))
		assert.Equal(t, time.Minute, store.TTLFor(Record{Degraded: true}))
	})
}

func TestStoreClear(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)
	store.Set("NVDA", Record{Symbol: "NVDA", RecordedAt: time.Now()})
	store.Set("AAPL", Record{Symbol: "AAPL", RecordedAt: time.Now()})

	store.Clear()

	assert.Equal(t, 0, store.Len())
	_, ok := store.Get("NVDA")
	assert.False(t, ok)
}

func TestStoreDefaults(t *testing.T) {
	store := NewStore(0, 0)
	assert.Equal(t, DefaultSuccessTTL, store.TTLFor(Record{}))
	assert.Equal(t, DefaultDegradedTTL, store.TTLFor(Record{Degraded: true}))
}

package scheduler

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func TestMarketHours_IsOpen(t *testing.T) {
	svc := NewMarketHoursService(zerolog.Nop())

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"weekday mid-session", time.Date(2026, 8, 25, 11, 0, 0, 0, ist), true},
		{"weekday before open", time.Date(2026, 8, 25, 8, 0, 0, 0, ist), false},
		{"weekday at open", time.Date(2026, 8, 25, 9, 15, 0, 0, ist), true},
		{"weekday just before open", time.Date(2026, 8, 25, 9, 14, 0, 0, ist), false},
		{"weekday at close", time.Date(2026, 8, 25, 15, 30, 0, 0, ist), true},
		{"weekday after close", time.Date(2026, 8, 25, 15, 31, 0, 0, ist), false},
		{"saturday", time.Date(2026, 8, 29, 11, 0, 0, 0, ist), false},
		{"sunday", time.Date(2026, 8, 30, 11, 0, 0, 0, ist), false},
		{"republic day holiday", time.Date(2026, 1, 26, 11, 0, 0, 0, ist), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.IsOpen(tt.at))
		})
	}
}

func TestMarketHours_ConvertsTimezone(t *testing.T) {
	svc := NewMarketHoursService(zerolog.Nop())

	// 06:00 UTC is 11:30 IST, inside the session
	assert.True(t, svc.IsOpen(time.Date(2026, 8, 25, 6, 0, 0, 0, time.UTC)))

	// 11:00 UTC is 16:30 IST, after the close
	assert.False(t, svc.IsOpen(time.Date(2026, 8, 25, 11, 0, 0, 0, time.UTC)))
}

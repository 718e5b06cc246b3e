package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// TradingWindow represents a single trading period within a day
type TradingWindow struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
}

// ExchangeCalendar defines trading hours and holidays for an exchange
type ExchangeCalendar struct {
	Code           string
	Name           string
	Timezone       *time.Location
	TradingWindows []TradingWindow
	Holidays       []time.Time
}

// MarketHoursService reports whether the exchange is currently trading.
// The sync job uses it to avoid writing half-formed daily bars.
type MarketHoursService struct {
	calendar *ExchangeCalendar
	log      zerolog.Logger
}

// NewMarketHoursService creates a market hours service for the NSE.
func NewMarketHoursService(log zerolog.Logger) *MarketHoursService {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		ist = time.FixedZone("IST", 5*3600+1800)
	}

	return &MarketHoursService{
		calendar: &ExchangeCalendar{
			Code:     "XNSE",
			Name:     "NSE",
			Timezone: ist,
			TradingWindows: []TradingWindow{
				{OpenHour: 9, OpenMinute: 15, CloseHour: 15, CloseMinute: 30},
			},
			Holidays: []time.Time{
				time.Date(2026, 1, 26, 0, 0, 0, 0, ist),  // Republic Day
				time.Date(2026, 3, 3, 0, 0, 0, 0, ist),   // Holi
				time.Date(2026, 4, 3, 0, 0, 0, 0, ist),   // Good Friday
				time.Date(2026, 4, 14, 0, 0, 0, 0, ist),  // Ambedkar Jayanti
				time.Date(2026, 5, 1, 0, 0, 0, 0, ist),   // Maharashtra Day
				time.Date(2026, 8, 15, 0, 0, 0, 0, ist),  // Independence Day
				time.Date(2026, 10, 2, 0, 0, 0, 0, ist),  // Gandhi Jayanti
				time.Date(2026, 11, 9, 0, 0, 0, 0, ist),  // Diwali
				time.Date(2026, 12, 25, 0, 0, 0, 0, ist), // Christmas
			},
		},
		log: log.With().Str("component", "market_hours").Logger(),
	}
}

// IsOpen reports whether the exchange is trading at the given instant.
func (s *MarketHoursService) IsOpen(at time.Time) bool {
	local := at.In(s.calendar.Timezone)

	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return false
	}

	for _, holiday := range s.calendar.Holidays {
		if local.Year() == holiday.Year() && local.YearDay() == holiday.YearDay() {
			return false
		}
	}

	minutes := local.Hour()*60 + local.Minute()
	for _, window := range s.calendar.TradingWindows {
		open := window.OpenHour*60 + window.OpenMinute
		close := window.CloseHour*60 + window.CloseMinute
		if minutes >= open && minutes <= close {
			return true
		}
	}

	return false
}

// IsOpenNow reports whether the exchange is trading right now.
func (s *MarketHoursService) IsOpenNow() bool {
	return s.IsOpen(time.Now())
}

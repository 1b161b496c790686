package pricing

import "greencurry/internal/domain/shared/dates"

// Festival is a seasonal pricing rule active over an inclusive date range.
type Festival struct {
	Name       string     `json:"name"`
	Start      dates.Date `json:"start"`
	End        dates.Date `json:"end"`
	Multiplier float64    `json:"multiplier"`
}

// Contains reports whether the date falls inside the inclusive range.
func (f Festival) Contains(d dates.Date) bool {
	return !d.Before(f.Start) && !d.After(f.End)
}

// DefaultFestivals is the static Chiang Mai festival table, loaded once at
// process start and immutable thereafter.
func DefaultFestivals() []Festival {
	return []Festival{
		{Name: "Songkran (Thai New Year)", Start: dates.MustParse("2025-04-12"), End: dates.MustParse("2025-04-16"), Multiplier: 1.5},
		{Name: "Loy Krathong / Yi Peng", Start: dates.MustParse("2025-11-04"), End: dates.MustParse("2025-11-06"), Multiplier: 1.4},
		{Name: "Christmas & New Year", Start: dates.MustParse("2025-12-24"), End: dates.MustParse("2026-01-02"), Multiplier: 1.3},
	}
}

package services

import "time"

// WeekColumn is one column of the year grid.
type WeekColumn struct {
	Week    int    `json:"week"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Month   int    `json:"month"`
	Quarter int    `json:"quarter"`
}

// isoWeek1Monday is the Monday of ISO week 1, the week holding January 4th.
func isoWeek1Monday(year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset)
}

func isoWeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// WeeksOfYear lays out the ISO weeks of year. A week belongs to the month and quarter of its Thursday.
func WeeksOfYear(year int) []WeekColumn {
	n := isoWeeksInYear(year)
	monday := isoWeek1Monday(year)
	out := make([]WeekColumn, 0, n)
	for w := 1; w <= n; w++ {
		start := monday.AddDate(0, 0, 7*(w-1))
		thursday := start.AddDate(0, 0, 3)
		month := int(thursday.Month())
		out = append(out, WeekColumn{
			Week:    w,
			Start:   start.Format("2006-01-02"),
			End:     start.AddDate(0, 0, 6).Format("2006-01-02"),
			Month:   month,
			Quarter: (month-1)/3 + 1,
		})
	}
	return out
}

package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// parseDate accepts a calendar date in a few common layouts; blank means NULL.
func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	return nil, apierr.BadRequest("invalid_date", "%s: cannot parse %q as a date (use YYYY-MM-DD)", field, raw)
}

func validWeek(week int) bool { return week >= 1 && week <= 53 }

func validYear(year int) bool { return year >= 1900 && year <= 9999 }

func validPercent(p int) bool { return p >= 0 && p <= 100 }

// notFound turns gorm's sentinel into a 404, leaving other errors alone.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(what)
	}
	return err
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

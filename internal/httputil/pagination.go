package httputil

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLimit is applied when the limit query parameter is omitted.
	DefaultLimit = 50
	// MaxLimit is the largest accepted page size.
	MaxLimit = 100
)

// ParsePagination parses offset (default 0) and limit (default 50, 1..100).
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxLimit)
	}

	return offset, limit, nil
}

// ParseTimeRange parses the optional from and to query parameters. Both accept RFC3339
// or YYYY-MM-DD; a date-only "to" covers the whole day. Nil means unbounded.
func ParseTimeRange(c *gin.Context) (from, to *time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		t, _, parseErr := parseInstant(raw)
		if parseErr != nil {
			return nil, nil, fmt.Errorf("invalid from parameter: %w", parseErr)
		}
		from = &t
	}

	if raw := c.Query("to"); raw != "" {
		t, dateOnly, parseErr := parseInstant(raw)
		if parseErr != nil {
			return nil, nil, fmt.Errorf("invalid to parameter: %w", parseErr)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("invalid time range: to is before from")
	}

	return from, to, nil
}

func parseInstant(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", raw)
	}
	return t.UTC(), true, nil
}

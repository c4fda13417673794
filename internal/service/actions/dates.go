package actions

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/venturalabs/ventura/internal/domain/models"
)

// ErrDateResolution is returned when a relative expiry offset cannot be
// coerced to a whole number of days.
var ErrDateResolution = errors.New("relative expiry offset is not an integer")

// ResolveRelativeDate resolves a day offset against the reference date
// and returns the result as an ISO calendar date. A nil offset counts
// as zero days; negative offsets are valid and yield past dates.
func ResolveRelativeDate(ref time.Time, offset any) (string, error) {
	days, err := coerceDays(offset)
	if err != nil {
		return "", err
	}
	return ref.AddDate(0, 0, days).Format(models.DateFormat), nil
}

func coerceDays(offset any) (int, error) {
	switch v := offset.(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, ErrDateResolution
		}
		return int(f), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, ErrDateResolution
		}
		return n, nil
	default:
		return 0, ErrDateResolution
	}
}

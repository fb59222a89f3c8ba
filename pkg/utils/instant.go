package utils

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrBadInstant is returned when a value cannot be coerced into a point in time.
var ErrBadInstant = errors.New("value is not a recognizable instant")

// ToInstant coerces the loose timestamp shapes found in report documents into a
// time.Time. Reports written by older clients carry raw epoch milliseconds or
// formatted strings instead of BSON dates, so every consumer goes through this
// single adapter instead of guessing on its own.
func ToInstant(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, ErrBadInstant
		}
		return *t, nil
	case primitive.DateTime:
		return t.Time(), nil
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0), nil
	case int64:
		return fromEpochMillis(t), nil
	case int:
		return fromEpochMillis(int64(t)), nil
	case float64:
		return fromEpochMillis(int64(t)), nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, ErrBadInstant
	case nil:
		return time.Time{}, ErrBadInstant
	default:
		return time.Time{}, ErrBadInstant
	}
}

// Values small enough to be epoch seconds are treated as seconds. The cutoff is
// year 2603 in seconds and Mar 1973 in milliseconds, safely outside report ages.
func fromEpochMillis(n int64) time.Time {
	if n < 1e11 {
		return time.Unix(n, 0)
	}
	return time.UnixMilli(n)
}

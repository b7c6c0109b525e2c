package components

import (
	"math/big"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
)

// FormatRelativeTime formats a time.Time as a relative time string like "3 hours ago".
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return timediff.TimeDiff(t)
}

// FormatFileSize formats a size in bytes to a human-readable string.
// Negative sizes render as "unknown".
func FormatFileSize(bytes int64) string {
	size, err := safecast.Convert[uint64](bytes)
	if err != nil {
		return "unknown"
	}
	return humanize.Bytes(size)
}

// FormatBytes formats an unsigned byte count.
func FormatBytes(bytes uint64) string {
	return humanize.Bytes(bytes)
}

// FormatCount formats a number with thousands separators.
func FormatCount[T ~int | ~int64 | ~uint64](n T) string {
	v, err := safecast.Convert[int64](n)
	if err != nil {
		// only unsigned values above MaxInt64 end up here
		return humanize.BigComma(new(big.Int).SetUint64(uint64(n)))
	}
	return humanize.Comma(v)
}

// Plural picks the singular or plural word for n.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

package components

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "1,234", FormatCount(int64(1234)))
	assert.Equal(t, "-1,000", FormatCount(-1000))
	assert.Equal(t, "9,223,372,036,854,775,807", FormatCount(uint64(math.MaxInt64)))
	assert.Equal(t, "18,446,744,073,709,551,615", FormatCount(uint64(math.MaxUint64)))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "unknown", FormatFileSize(-1))
	assert.Equal(t, "1.0 kB", FormatFileSize(1000))
}

func TestFormatRelativeTime(t *testing.T) {
	assert.Equal(t, "never", FormatRelativeTime(time.Time{}))
}

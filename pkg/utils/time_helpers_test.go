package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"helpdesk-system/internal/engine"
)

func TestFormatMinutesHMS(t *testing.T) {
	assert.Equal(t, "04:00:00", FormatMinutesHMS(240))
	assert.Equal(t, "00:30:30", FormatMinutesHMS(30.5))
	assert.Equal(t, "00:00:00", FormatMinutesHMS(0))
	assert.Equal(t, "00:00:00", FormatMinutesHMS(-10))
}

// Format and parse are inverses for every whole-minute value below a day.
func TestFormatMinutesHMS_RoundTrip(t *testing.T) {
	for m := 0; m < 1440; m++ {
		formatted := FormatMinutesHMS(float64(m))
		assert.Equal(t, float64(m), engine.ParseMinutes(formatted), "minutes=%d formatted=%s", m, formatted)
	}
}

func TestFormatMinutesHuman(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutesHuman(0))
	assert.Equal(t, "45m", FormatMinutesHuman(45))
	assert.Equal(t, "2h 30m", FormatMinutesHuman(150))
	assert.Equal(t, "1d 1h 1m", FormatMinutesHuman(1501))
	assert.Equal(t, "1d", FormatMinutesHuman(1440))
}

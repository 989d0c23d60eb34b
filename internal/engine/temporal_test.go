package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant_ExcelSerial(t *testing.T) {
	// 44927 = 2023-01-01; .4375 of a day = 10:30:00.
	got := ParseInstant(44927.4375)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2023, 1, 1, 10, 30, 0, 0, time.UTC), *got)

	got = ParseInstant("45839")
	require.NotNil(t, got)
	assert.Equal(t, 2025, got.Year())
}

func TestParseInstant_SerialTooSmallIsNotADate(t *testing.T) {
	assert.Nil(t, ParseInstant(240))
	assert.Nil(t, ParseInstant(0.4375))
	assert.Nil(t, ParseInstant(-1))
}

func TestParseInstant_TwoDigitYearRule(t *testing.T) {
	got := ParseInstant("01/01/25 08:00:00")
	require.NotNil(t, got)
	assert.Equal(t, 2025, got.Year())

	got = ParseInstant("01/01/60 08:00:00")
	require.NotNil(t, got)
	assert.Equal(t, 1960, got.Year())

	got = ParseInstant("01/01/49")
	require.NotNil(t, got)
	assert.Equal(t, 2049, got.Year())

	got = ParseInstant("01/01/50")
	require.NotNil(t, got)
	assert.Equal(t, 1950, got.Year())
}

func TestParseInstant_StringFormats(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"dmy slash with seconds", "15/3/2024 09:05:07", time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)},
		{"dmy slash no seconds", "15/03/2024 09:05", time.Date(2024, 3, 15, 9, 5, 0, 0, time.UTC)},
		{"dmy date only", "15/03/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"dmy dash", "15-03-2024 09:05:07", time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)},
		{"ymd with time", "2024-03-15 09:05:07", time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)},
		{"ymd date only", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 fallback", "2024-03-15T09:05:07Z", time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseInstant(tc.in)
			require.NotNil(t, got)
			assert.True(t, tc.want.Equal(*got), "got %v", *got)
		})
	}
}

func TestParseInstant_NativeTime(t *testing.T) {
	in := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	got := ParseInstant(in)
	require.NotNil(t, got)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, in.Equal(*got))

	assert.Nil(t, ParseInstant(time.Time{}))
}

func TestParseInstant_Garbage(t *testing.T) {
	for _, in := range []interface{}{nil, "", "   ", "not a date", "99/99/2024", "31/04/2024", struct{}{}, true} {
		assert.Nil(t, ParseInstant(in), "input %v", in)
	}
}

func TestParseMinutes_Formats(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"hh:mm:ss", "04:00:00", 240},
		{"hh:mm:ss rounds seconds", "01:30:45", 91},
		{"hh:mm", "02:15", 135},
		{"h m phrase", "2h 30m", 150},
		{"hours only", "3h", 180},
		{"minutes only", "45m", 45},
		{"long phrase", "2 hours 30 minutes", 150},
		{"long hours", "2 Hours", 120},
		{"long minutes", "90 minutes", 90},
		{"excel fraction half day", 0.5, 720},
		{"excel fraction string", "0.25", 360},
		{"bare number small is minutes", 240, 240},
		{"bare number large is seconds", 7200, 120},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"garbage", "soon", 0},
		{"negative", -5, 0},
		{"out of range clock", "25:00:00", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseMinutes(tc.in))
		})
	}
}

func TestParseMinutes_NativeTimeIsTimeOfDay(t *testing.T) {
	in := time.Date(1899, 12, 31, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, float64(240), ParseMinutes(in))
}

func TestTemporalValue(t *testing.T) {
	v := NewInstantValue("15/03/2024 09:05:07")
	assert.Equal(t, KindInstant, v.Kind)
	assert.True(t, v.Valid())

	v = NewInstantValue("garbage")
	assert.False(t, v.Valid())
	assert.Equal(t, "garbage", v.Raw)

	v = NewDurationValue("04:00:00")
	assert.Equal(t, KindDuration, v.Kind)
	assert.Equal(t, float64(240), v.Minutes)
}

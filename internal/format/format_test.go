package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clawbot-dashboard/internal/model"
)

func TestTimestampGermanLocale(t *testing.T) {
	vienna, err := time.LoadLocation("Europe/Vienna")
	require.NoError(t, err)
	f := Must("de-AT", vienna)

	// 2023-11-14T22:13:20Z is 23:13 in Vienna.
	assert.Equal(t, "14.11.2023, 23:13", f.Timestamp(model.TimestampFromMillis(1700000000000)))
}

func TestTimestampOtherLocales(t *testing.T) {
	ts := model.TimestampFromMillis(1700000000000)

	assert.Equal(t, "14/11/2023, 22:13", Must("en-GB", time.UTC).Timestamp(ts))
	assert.Equal(t, "11/14/2023, 10:13 PM", Must("en-US", time.UTC).Timestamp(ts))
}

func TestTimestampInvalid(t *testing.T) {
	f := Must(DefaultLocale, time.UTC)
	assert.Equal(t, InvalidDate, f.Timestamp(model.ParseTimestamp("yesterday")))
}

func TestClock(t *testing.T) {
	f := Must(DefaultLocale, time.UTC)
	assert.Equal(t, "08:05:09", f.Clock(time.Date(2024, 1, 2, 8, 5, 9, 0, time.UTC)))
}

func TestNewRejectsUnknownLocale(t *testing.T) {
	_, err := New("xx-YY", time.UTC)
	assert.Error(t, err)
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"empty string returns local", "", false},
		{"Local returns local", "Local", false},
		{"valid timezone UTC", "UTC", false},
		{"valid timezone America/New_York", "America/New_York", false},
		{"invalid timezone", "Invalid/Timezone", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, loc)
		})
	}
}

func TestNextDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{"ordinary day", "2024-05-14", "2024-05-15"},
		{"month end", "2024-04-30", "2024-05-01"},
		{"leap day", "2024-02-28", "2024-02-29"},
		{"year end", "2023-12-31", "2024-01-01"},
		{"US spring forward eve", "2024-03-09", "2024-03-10"},
		{"US spring forward day", "2024-03-10", "2024-03-11"},
		{"US fall back day", "2024-11-03", "2024-11-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDate(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextDate_DoesNotDependOnLocalZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	saved := time.Local
	time.Local = ny
	t.Cleanup(func() { time.Local = saved })

	got, err := NextDate("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", got)

	// Adding 24h of elapsed time to local midnight lands an hour into the next
	// day here, but a day that is only 23 hours long must still map one-to-one.
	got, err = NextDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", got)
}

func TestNextDate_Invalid(t *testing.T) {
	_, err := NextDate("03/09/2024")
	assert.Error(t, err)
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2024-03-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got)
}

func TestDaysAgo(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC).UnixMilli(), DaysAgo(now, 7))
	assert.Equal(t, now.UnixMilli(), DaysAgo(now, 0))
}

func TestTimeOnDate(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	now := time.Date(2024, 6, 10, 21, 5, 0, 0, loc)

	got, err := TimeOnDate(now, "22:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 22, 30, 0, 0, loc), got)

	_, err = TimeOnDate(now, "late")
	assert.Error(t, err)
}

func TestFormatHour(t *testing.T) {
	tests := map[int]string{
		0:  "12 AM",
		9:  "9 AM",
		12: "12 PM",
		13: "1 PM",
		23: "11 PM",
		24: "12 AM",
	}
	for hour, want := range tests {
		assert.Equal(t, want, FormatHour(hour), "hour %d", hour)
	}
}

func TestValidateTimezone(t *testing.T) {
	assert.True(t, ValidateTimezone(""))
	assert.True(t, ValidateTimezone("Local"))
	assert.True(t, ValidateTimezone("Europe/London"))
	assert.False(t, ValidateTimezone("Mars/Olympus_Mons"))
}

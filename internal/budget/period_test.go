package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		spent int64
		limit int64
		want  Band
	}{
		{"zero_spent", 0, 100, BandLow},
		{"just_under_half", 49, 100, BandLow},
		{"exactly_half", 50, 100, BandMedium},
		{"just_under_eighty", 79, 100, BandMedium},
		{"exactly_eighty", 80, 100, BandHigh},
		{"at_limit", 100, 100, BandHigh},
		{"over_limit", 250, 100, BandHigh},
		{"zero_limit", 10, 0, BandInvalid},
		{"negative_limit", 10, -1, BandInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, band := Classify(tt.spent, tt.limit)
			assert.Equal(t, tt.want, band)
			if tt.want == BandInvalid {
				assert.Nil(t, ratio)
			} else {
				require.NotNil(t, ratio)
			}
		})
	}
}

func TestPeriod_Advance(t *testing.T) {
	start := time.Date(2025, 1, 31, 9, 30, 0, 0, time.UTC)

	weekly, err := Weekly.Advance(start)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 7, 9, 30, 0, 0, time.UTC), weekly)

	monthly, err := Monthly.Advance(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), monthly)

	// Calendar month, not a 30 day proxy.
	feb, err := Monthly.Advance(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), feb)

	yearly, err := Yearly.Advance(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), yearly)

	_, err = Period("daily").Advance(start)
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestDailyRate(t *testing.T) {
	rate, err := DailyRate(700, Weekly)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, rate, 1e-9)

	rate, err = DailyRate(3000, Monthly)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, rate, 1e-9)

	rate, err = DailyRate(36500, Yearly)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, rate, 1e-9)

	_, err = DailyRate(100, "")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestPeriod_Valid(t *testing.T) {
	assert.True(t, Weekly.Valid())
	assert.True(t, Monthly.Valid())
	assert.True(t, Yearly.Valid())
	assert.False(t, Period("Monthly").Valid())
	assert.False(t, Period("").Valid())
}

package weather

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/skyweather/internal/common"
)

func TestMockSnapshot(t *testing.T) {
	now := time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC)

	for seed := uint64(0); seed < 20; seed++ {
		snap := MockSnapshot(common.LanguageZH, now, rand.New(rand.NewPCG(seed, 1)))

		require.True(t, snap.Valid())
		assert.True(t, snap.Synthetic)
		require.Len(t, snap.Hourly, MaxHourly)
		require.Len(t, snap.Daily, MaxDaily)
		assert.LessOrEqual(t, len(snap.Alerts), 1)

		assert.Equal(t, "22:00", snap.Hourly[0].Time)
		assert.Equal(t, "00:00", snap.Hourly[2].Time)
		assert.Equal(t, IconClearNight, snap.Hourly[0].Icon)
		assert.Equal(t, IconClearDay, snap.Hourly[12].Icon) // 10:00

		for _, h := range snap.Hourly {
			assert.GreaterOrEqual(t, h.Temp, 16.0)
			assert.LessOrEqual(t, h.Temp, 24.0)
			assert.GreaterOrEqual(t, h.PrecipProbability, 0)
			assert.LessOrEqual(t, h.PrecipProbability, 30)
		}
		for i, d := range snap.Daily {
			assert.Less(t, d.MinTemp, d.MaxTemp)
			if i%3 == 0 {
				assert.Equal(t, IconRain, d.Icon)
				assert.Equal(t, "小雨", d.Condition)
			}
		}
		assert.Equal(t, "2024-06-01", snap.Daily[0].Date)
		assert.Equal(t, "周六", snap.Daily[0].DayName)
	}
}

func TestMockSnapshot_English(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	snap := MockSnapshot(common.LanguageEN, now, rand.New(rand.NewPCG(7, 7)))

	assert.Equal(t, "Good", snap.Current.AQIDescription)
	assert.Equal(t, "Sat", snap.Daily[0].DayName)
	assert.Equal(t, "Cloudy", snap.Daily[1].Condition)
	for _, a := range snap.Alerts {
		assert.Equal(t, SeverityMajor, a.Level)
		assert.Equal(t, "Heavy Rain Warning", a.Title)
	}
}

func TestMockSnapshot_AlertsAreOccasional(t *testing.T) {
	now := time.Now()
	withAlert := 0
	for seed := uint64(0); seed < 500; seed++ {
		if len(MockSnapshot(common.LanguageEN, now, rand.New(rand.NewPCG(seed, 99))).Alerts) > 0 {
			withAlert++
		}
	}
	assert.Greater(t, withAlert, 50)
	assert.Less(t, withAlert, 300)
}

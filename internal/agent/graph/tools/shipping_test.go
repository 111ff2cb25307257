package tools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow is a Monday so weekday arithmetic in the tests is readable.
var fixedNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

func TestParseDeliveryDays(t *testing.T) {
	tests := []struct {
		window  string
		want    int
		wantErr bool
	}{
		{window: "2-day", want: 2},
		{window: "5-day", want: 5},
		{window: "same day", wantErr: true},
		{window: "x-day", wantErr: true},
		{window: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseDeliveryDays(tt.window)
		if tt.wantErr {
			assert.Error(t, err, tt.window)
			continue
		}
		require.NoError(t, err, tt.window)
		assert.Equal(t, tt.want, got, tt.window)
	}
}

func TestParseOrdinalDay(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "1st", want: 1, wantOK: true},
		{in: "2nd", want: 2, wantOK: true},
		{in: "3rd", want: 3, wantOK: true},
		{in: "15th", want: 15, wantOK: true},
		{in: "31st", want: 31, wantOK: true},
		{in: "32nd", wantOK: false},
		{in: "0th", wantOK: false},
		{in: "friday", wantOK: false},
		{in: "15", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := parseOrdinalDay(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestDeliveryFeasibility(t *testing.T) {
	t.Run("weekday target reachable", func(t *testing.T) {
		// Monday + 2 days arrives Wednesday, before Friday
		feas, err := deliveryFeasibility(fixedNow, 2, "Friday")
		require.NoError(t, err)
		assert.True(t, feas.canDeliver)
		assert.Equal(t, "Wednesday, March 4", feas.deliveryDate)
		assert.Equal(t, "Friday, March 6", feas.requestedDate)
	})

	t.Run("weekday target missed", func(t *testing.T) {
		feas, err := deliveryFeasibility(fixedNow, 5, "Friday")
		require.NoError(t, err)
		assert.False(t, feas.canDeliver)
	})

	t.Run("same weekday rolls a full week ahead", func(t *testing.T) {
		feas, err := deliveryFeasibility(fixedNow, 3, "Monday")
		require.NoError(t, err)
		assert.True(t, feas.canDeliver)
		assert.Equal(t, "Monday, March 9", feas.requestedDate)
	})

	t.Run("ordinal target in current month", func(t *testing.T) {
		feas, err := deliveryFeasibility(fixedNow, 3, "15th")
		require.NoError(t, err)
		assert.True(t, feas.canDeliver)
		assert.Equal(t, "Sunday, March 15", feas.requestedDate)
	})

	t.Run("ordinal earlier than today rolls to next month", func(t *testing.T) {
		feas, err := deliveryFeasibility(fixedNow, 3, "1st")
		require.NoError(t, err)
		assert.True(t, feas.canDeliver)
		assert.Equal(t, "Wednesday, April 1", feas.requestedDate)
	})

	t.Run("ordinal beyond month length errors", func(t *testing.T) {
		// April has 30 days; "31st" from a March 2 baseline lands in April
		// once the day has passed, which is rejected.
		lateMarch := time.Date(2026, time.April, 5, 10, 0, 0, 0, time.UTC)
		_, err := deliveryFeasibility(lateMarch, 2, "31st")
		assert.Error(t, err)
	})

	t.Run("unparseable target errors", func(t *testing.T) {
		_, err := deliveryFeasibility(fixedNow, 2, "soon")
		assert.Error(t, err)
	})
}

func TestEstimateShipping(t *testing.T) {
	t.Run("zip-specific rate", func(t *testing.T) {
		quote, err := estimateShipping(&EstimateShippingInput{
			ProductName: "Floral Skirt",
			ZipCode:     "12345",
		}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "2-day", quote.EstimatedDelivery)
		assert.Equal(t, 4.99, quote.Cost)
		assert.Equal(t, "12345", quote.ZipCode)
		assert.Nil(t, quote.CanDeliver)
	})

	t.Run("unknown zip falls back to default rate", func(t *testing.T) {
		quote, err := estimateShipping(&EstimateShippingInput{
			ProductName: "Floral Skirt",
			ZipCode:     "99999",
		}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "3-day", quote.EstimatedDelivery)
		assert.Equal(t, "99999", quote.ZipCode)
	})

	t.Run("delivery target sets feasibility", func(t *testing.T) {
		quote, err := estimateShipping(&EstimateShippingInput{
			ProductName:    "White Sneakers",
			DeliveryTarget: "Friday",
		}, fixedNow)
		require.NoError(t, err)
		require.NotNil(t, quote.CanDeliver)
		assert.True(t, *quote.CanDeliver)
		assert.Equal(t, "Friday, March 6", quote.RequestedDate)
	})

	t.Run("partial name resolves first match", func(t *testing.T) {
		quote, err := estimateShipping(&EstimateShippingInput{
			ProductName: "floral skirt",
		}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "3-day", quote.EstimatedDelivery)
	})

	t.Run("unknown product errors", func(t *testing.T) {
		_, err := estimateShipping(&EstimateShippingInput{ProductName: "winter parka"}, fixedNow)
		assert.Error(t, err)
	})
}

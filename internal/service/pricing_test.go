package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	assert.Equal(t, 1, Nights(day("2024-07-01"), day("2024-07-01")), "same-day stay bills one night")
	assert.Equal(t, 1, Nights(day("2024-07-01"), day("2024-07-02")))
	assert.Equal(t, 3, Nights(day("2024-07-01"), day("2024-07-04")))
	assert.Equal(t, 14, Nights(day("2024-07-01"), day("2024-07-15")))
}

func TestHotelPrice(t *testing.T) {
	// 8000 cents x 2 rooms x 3 nights
	assert.Equal(t, 48000, HotelPrice(8000, 2, day("2024-07-01"), day("2024-07-04")))
	assert.Equal(t, 8000, HotelPrice(8000, 1, day("2024-07-01"), day("2024-07-01")), "same-day stay never prices at zero")
	assert.Equal(t, 0, HotelPrice(0, 3, day("2024-07-01"), day("2024-07-04")))
}

func TestGuidePrice(t *testing.T) {
	assert.Equal(t, 5000, GuidePrice(5000))
	assert.Equal(t, 0, GuidePrice(0))
}

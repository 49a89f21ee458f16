package service

import "time"

// Nights counts billable nights for an inclusive date-only range. A
// same-day stay bills one night; a stay never prices at zero.
func Nights(start, end time.Time) int {
	d := end.Sub(start)
	n := int(d.Hours() / 24)
	if d.Hours() > float64(n*24) {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// HotelPrice is nightly rate x rooms x nights, in cents.
func HotelPrice(nightlyRate, rooms int, start, end time.Time) int {
	return nightlyRate * rooms * Nights(start, end)
}

// GuidePrice is the guide's flat charge. Guides bill per engagement, not
// per night.
func GuidePrice(charge int) int {
	return charge
}

package entities

type BookingEmailData struct {
	UserName           string
	ReservationCode    string
	ResourceName       string
	Rooms              int
	StartDateFormatted string
	EndDateFormatted   string
	CurrentYear        int
	Language           string
	Status             string
}

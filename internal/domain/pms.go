package domain

// Canonical shapes shared by every provider adapter. Adapters translate
// upstream payloads into these and never leak provider field names past
// their own boundary. Dates are civil dates formatted "2006-01-02".

type HotelConfiguration struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Timezone string  `json:"timezone"`
	Currency string  `json:"currency"`
	Address  *string `json:"address,omitempty"`
}

type AvailabilityParams struct {
	StartDate  string
	EndDate    string
	RoomTypeID string // optional; empty means all room types
}

// Availability is one (date, room type) cell.
type Availability struct {
	Date       string  `json:"date"`
	RoomTypeID string  `json:"room_type_id"`
	Available  int     `json:"available"`
	Rate       float64 `json:"rate"`
	Currency   string  `json:"currency"`
}

type ReservationParams struct {
	StartDate string
	EndDate   string
	Status    string // optional filter; empty means all
}

type Reservation struct {
	ID         string  `json:"id"`
	GuestName  string  `json:"guest_name"`
	RoomTypeID string  `json:"room_type_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Status     string  `json:"status"`
	Total      float64 `json:"total"`
	Currency   string  `json:"currency"`
}

type RoomType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Capacity    int     `json:"capacity"`
	Description *string `json:"description,omitempty"`
}

type Rate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RoomTypeID string  `json:"room_type_id"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
}

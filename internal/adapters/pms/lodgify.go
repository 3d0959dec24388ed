// internal/adapters/pms/lodgify.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Lodgify: static API key in an "X-ApiKey" header. List endpoints page
// their results under the generic "items" key. Default currency USD.
type lodgify struct {
	*client
	propertyID string
}

func newLodgify(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	key, err := cred(domain.ProviderLodgify, creds, "api_key")
	if err != nil {
		return nil, err
	}
	pid, err := cred(domain.ProviderLodgify, creds, "property_id")
	if err != nil {
		return nil, err
	}
	base := baseURL(creds, "https://api.lodgify.com/v2")
	return &lodgify{client: newClient(domain.ProviderLodgify, base, apiKey{key: key, header: "X-ApiKey"}, 5), propertyID: pid}, nil
}

func (a *lodgify) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/properties/"+a.propertyID, nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	return domain.HotelConfiguration{
		ID:       strOr(firstID(out, "id"), a.propertyID),
		Name:     firstStr(out, "name"),
		Timezone: strOr(firstStr(out, "timezone", "time_zone"), "UTC"),
		Currency: currencyOr(out, "USD", "currency_code"),
		Address:  composeAddress(out),
	}, nil
}

func (a *lodgify) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"start": {p.StartDate}, "end": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("roomTypeId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/availability/"+a.propertyID, q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "periods")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "available", "units_available")
		rate, _ := firstFloat(m, "price_per_day", "rate")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "start", "date"),
			RoomTypeID: firstID(m, "room_type_id", "roomTypeId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return av, nil
}

func (a *lodgify) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"stayFilter": {"ArrivalDate"}, "periodStart": {p.StartDate}, "periodEnd": {p.EndDate}}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/reservations/bookings", q, &out); err != nil {
		return nil, err
	}
	list := collection(out)
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "total_amount", "amount_due")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "id"),
			GuestName:  guestName(envelope(m, "guest")),
			RoomTypeID: firstID(m, "rooms.room_type_id", "room_type_id"),
			CheckIn:    dateStr(m, "arrival", "date_arrival"),
			CheckOut:   dateStr(m, "departure", "date_departure"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rs, nil
}

func (a *lodgify) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/properties/"+a.propertyID+"/rooms", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out)
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "max_people", "capacity")
		rt := domain.RoomType{
			ID:       firstID(m, "id", "room_type_id"),
			Name:     firstStr(m, "name"),
			Capacity: capacity,
		}
		if d := firstStr(m, "description"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *lodgify) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/rates/settings", url.Values{"houseId": {a.propertyID}}, &out); err != nil {
		return nil, err
	}
	list := collection(out, "rate_settings", "rates")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "price_per_day", "default_price")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "id", "rate_id"),
			Name:       firstStr(m, "name"),
			RoomTypeID: firstID(m, "room_type_id"),
			Price:      price,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rates, nil
}

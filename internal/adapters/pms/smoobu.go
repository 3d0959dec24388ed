// internal/adapters/pms/smoobu.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Smoobu: static API key in an "Api-Key" header. Vacation-rental model:
// apartments stand in for room types, bookings for reservations.
// Default currency EUR.
type smoobu struct {
	*client
}

func newSmoobu(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	key, err := cred(domain.ProviderSmoobu, creds, "api_key")
	if err != nil {
		return nil, err
	}
	base := baseURL(creds, "https://login.smoobu.com/api")
	return &smoobu{client: newClient(domain.ProviderSmoobu, base, apiKey{key: key, header: "Api-Key"}, 5)}, nil
}

func (a *smoobu) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/me", nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	name := firstStr(out, "companyName", "firstName")
	if last := firstStr(out, "lastName"); name != "" && last != "" && firstStr(out, "companyName") == "" {
		name += " " + last
	}
	return domain.HotelConfiguration{
		ID:       firstID(out, "id"),
		Name:     name,
		Timezone: strOr(firstStr(out, "timeZone", "timezone"), "Europe/Berlin"),
		Currency: currencyOr(out, "EUR"),
		Address:  composeAddress(out),
	}, nil
}

func (a *smoobu) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"start_date": {p.StartDate}, "end_date": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("apartments[]", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/rates", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "rates")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "available")
		rate, _ := firstFloat(m, "price")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "date"),
			RoomTypeID: firstID(m, "apartmentId", "apartment.id"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "EUR"),
		})
	}
	return av, nil
}

func (a *smoobu) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"arrivalFrom": {p.StartDate}, "arrivalTo": {p.EndDate}}
	var out any
	if err := a.getJSON(ctx, "/reservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "bookings")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		status := strOr(firstStr(m, "type", "status"), "confirmed")
		if p.Status != "" && status != p.Status {
			continue
		}
		total, _ := firstFloat(m, "price", "totalPrice")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "id", "reference-id"),
			GuestName:  guestName(m),
			RoomTypeID: firstID(m, "apartment.id", "apartmentId"),
			CheckIn:    dateStr(m, "arrival"),
			CheckOut:   dateStr(m, "departure"),
			Status:     status,
			Total:      total,
			Currency:   currencyOr(m, "EUR"),
		})
	}
	return rs, nil
}

func (a *smoobu) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/apartments", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "apartments")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "maxOccupancy", "rooms.maxOccupancy")
		rt := domain.RoomType{
			ID:       firstID(m, "id"),
			Name:     firstStr(m, "name"),
			Capacity: capacity,
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *smoobu) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/apartments", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "apartments")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "price.minimal", "basePrice")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "id") + "-base",
			Name:       strOr(firstStr(m, "name"), "Base rate"),
			RoomTypeID: firstID(m, "id"),
			Price:      price,
			Currency:   currencyOr(m, "EUR", "price.currency"),
		})
	}
	return rates, nil
}

// internal/adapters/pms/siteminder.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// SiteMinder: client credentials (form-encoded). Collections under
// explicit named keys. Default currency AUD (home market).
type siteminder struct {
	*client
	propertyID string
}

func newSiteminder(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	id, err := cred(domain.ProviderSiteminder, creds, "client_id")
	if err != nil {
		return nil, err
	}
	secret, err := cred(domain.ProviderSiteminder, creds, "client_secret")
	if err != nil {
		return nil, err
	}
	pid, err := cred(domain.ProviderSiteminder, creds, "property_id")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.siteminder.com/v1")
	auth := newClientCredentials(domain.ProviderSiteminder, base+"/oauth/token", id, secret, false)
	return &siteminder{client: newClient(domain.ProviderSiteminder, base, auth, 5), propertyID: pid}, nil
}

func (a *siteminder) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/properties/"+a.propertyID, nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "property")
	return domain.HotelConfiguration{
		ID:       strOr(firstID(h, "id", "propertyCode"), a.propertyID),
		Name:     firstStr(h, "name"),
		Timezone: strOr(firstStr(h, "timezone", "timeZone"), "UTC"),
		Currency: currencyOr(h, "AUD", "defaultCurrency"),
		Address:  composeAddress(h),
	}, nil
}

func (a *siteminder) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"startDate": {p.StartDate}, "endDate": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("roomId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/properties/"+a.propertyID+"/inventory", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "inventory")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "available", "allotment")
		rate, _ := firstFloat(m, "rate", "amount")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "date"),
			RoomTypeID: firstID(m, "roomId", "roomCode"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "AUD"),
		})
	}
	return av, nil
}

func (a *siteminder) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"checkInFrom": {p.StartDate}, "checkInTo": {p.EndDate}}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/properties/"+a.propertyID+"/reservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "reservations")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "totalPrice", "total")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "id", "reservationCode"),
			GuestName:  guestName(m),
			RoomTypeID: firstID(m, "roomId", "roomCode"),
			CheckIn:    dateStr(m, "checkIn", "arrivalDate"),
			CheckOut:   dateStr(m, "checkOut", "departureDate"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "AUD"),
		})
	}
	return rs, nil
}

func (a *siteminder) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/properties/"+a.propertyID+"/rooms", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "rooms")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "maxOccupancy", "occupancy")
		rt := domain.RoomType{
			ID:       firstID(m, "id", "roomCode"),
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

func (a *siteminder) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/properties/"+a.propertyID+"/rate-plans", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "ratePlans")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "amount", "baseRate")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "id", "rateCode"),
			Name:       firstStr(m, "name"),
			RoomTypeID: firstID(m, "roomId", "roomCode"),
			Price:      price,
			Currency:   currencyOr(m, "AUD"),
		})
	}
	return rates, nil
}

// internal/adapters/pms/beds24.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Beds24: long-lived token appended to every URL as "token". List
// endpoints return bare top-level JSON arrays. Default currency GBP.
type beds24 struct {
	*client
	propKey string
}

func newBeds24(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	token, err := cred(domain.ProviderBeds24, creds, "token")
	if err != nil {
		return nil, err
	}
	propKey, err := cred(domain.ProviderBeds24, creds, "prop_key")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.beds24.com/json")
	auth := queryKey{key: token, param: "token", extra: url.Values{"propKey": {propKey}}}
	return &beds24{client: newClient(domain.ProviderBeds24, base, auth, 5), propKey: propKey}, nil
}

func (a *beds24) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/getProperty", nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "property")
	return domain.HotelConfiguration{
		ID:       firstID(h, "propId", "propertyId"),
		Name:     firstStr(h, "propName", "name"),
		Timezone: strOr(firstStr(h, "propTimezone", "timezone"), "Europe/London"),
		Currency: currencyOr(h, "GBP", "propCurrency"),
		Address:  composeAddress(h),
	}, nil
}

func (a *beds24) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"from": {p.StartDate}, "to": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("roomId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/getRoomDates", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out)
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "inventory", "numAvail")
		rate, _ := firstFloat(m, "price1", "price")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "date"),
			RoomTypeID: firstID(m, "roomId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "GBP"),
		})
	}
	return av, nil
}

func (a *beds24) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"arrivalFrom": {p.StartDate}, "arrivalTo": {p.EndDate}}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/getBookings", q, &out); err != nil {
		return nil, err
	}
	list := collection(out)
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "price", "totalPrice")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "bookId", "id"),
			GuestName:  guestName(m),
			RoomTypeID: firstID(m, "roomId"),
			CheckIn:    dateStr(m, "firstNight", "arrival"),
			CheckOut:   dateStr(m, "lastNight", "departure"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "GBP"),
		})
	}
	return rs, nil
}

func (a *beds24) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/getRooms", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "rooms")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "maxPeople", "numRooms")
		rt := domain.RoomType{
			ID:       firstID(m, "roomId"),
			Name:     firstStr(m, "roomName", "name"),
			Capacity: capacity,
		}
		if d := firstStr(m, "roomDescription"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *beds24) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/getRates", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out)
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "roomPrice", "price")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "rateId", "id"),
			Name:       firstStr(m, "name", "rateName"),
			RoomTypeID: firstID(m, "roomId"),
			Price:      price,
			Currency:   currencyOr(m, "GBP"),
		})
	}
	return rates, nil
}

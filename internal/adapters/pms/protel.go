// internal/adapters/pms/protel.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// protel: static API key in an "X-API-Key" header. Default currency
// EUR.
type protel struct {
	*client
	hotelID string
}

func newProtel(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	key, err := cred(domain.ProviderProtel, creds, "api_key")
	if err != nil {
		return nil, err
	}
	hotelID, err := cred(domain.ProviderProtel, creds, "hotel_id")
	if err != nil {
		return nil, err
	}
	base := baseURL(creds, "https://api.protel.io/v1")
	return &protel{client: newClient(domain.ProviderProtel, base, apiKey{key: key, header: "X-API-Key"}, 5), hotelID: hotelID}, nil
}

func (a *protel) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/hotels/"+a.hotelID, nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "hotel")
	return domain.HotelConfiguration{
		ID:       strOr(firstID(h, "hotelId", "id"), a.hotelID),
		Name:     firstStr(h, "hotelName", "name"),
		Timezone: strOr(firstStr(h, "timezone"), "Europe/Berlin"),
		Currency: currencyOr(h, "EUR"),
		Address:  composeAddress(h),
	}, nil
}

func (a *protel) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"from": {p.StartDate}, "to": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("categoryId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/hotels/"+a.hotelID+"/availability", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "availability")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "freeRooms", "available")
		rate, _ := firstFloat(m, "rate", "price")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "date"),
			RoomTypeID: firstID(m, "categoryId", "roomTypeId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "EUR"),
		})
	}
	return av, nil
}

func (a *protel) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"arrivalFrom": {p.StartDate}, "arrivalTo": {p.EndDate}}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/hotels/"+a.hotelID+"/reservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "reservations")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "totalAmount", "grossAmount")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "reservationId", "id"),
			GuestName:  guestName(m),
			RoomTypeID: firstID(m, "categoryId", "roomTypeId"),
			CheckIn:    dateStr(m, "arrival"),
			CheckOut:   dateStr(m, "departure"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "EUR"),
		})
	}
	return rs, nil
}

func (a *protel) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/hotels/"+a.hotelID+"/categories", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "categories")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "maxPersons", "beds")
		rt := domain.RoomType{
			ID:       firstID(m, "categoryId", "id"),
			Name:     firstStr(m, "name", "shortName"),
			Capacity: capacity,
		}
		if d := firstStr(m, "description"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *protel) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/hotels/"+a.hotelID+"/rates", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "rates")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "amount", "price")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "rateId", "id"),
			Name:       firstStr(m, "name"),
			RoomTypeID: firstID(m, "categoryId", "roomTypeId"),
			Price:      price,
			Currency:   currencyOr(m, "EUR"),
		})
	}
	return rates, nil
}

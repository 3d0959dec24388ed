// internal/adapters/pms/stayntouch.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// StayNTouch: client credentials, Basic-encoded token request.
// Collections under "results". Default currency USD.
type stayntouch struct {
	*client
	hotelID string
}

func newStayntouch(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	id, err := cred(domain.ProviderStayntouch, creds, "client_id")
	if err != nil {
		return nil, err
	}
	secret, err := cred(domain.ProviderStayntouch, creds, "client_secret")
	if err != nil {
		return nil, err
	}
	hotelID, err := cred(domain.ProviderStayntouch, creds, "hotel_id")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.stayntouch.com/pms/v1")
	auth := newClientCredentials(domain.ProviderStayntouch, base+"/auth/token", id, secret, true)
	return &stayntouch{client: newClient(domain.ProviderStayntouch, base, auth, 5), hotelID: hotelID}, nil
}

func (a *stayntouch) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/hotels/"+a.hotelID, nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	return domain.HotelConfiguration{
		ID:       strOr(firstID(out, "id"), a.hotelID),
		Name:     firstStr(out, "name", "hotelName"),
		Timezone: strOr(firstStr(out, "timeZone", "timezone"), "UTC"),
		Currency: currencyOr(out, "USD", "baseCurrency"),
		Address:  composeAddress(out),
	}, nil
}

func (a *stayntouch) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"from": {p.StartDate}, "to": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("roomTypeId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/hotels/"+a.hotelID+"/availability", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out)
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "availableCount", "available")
		rate, _ := firstFloat(m, "rateAmount", "amount")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "date"),
			RoomTypeID: firstID(m, "roomTypeId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return av, nil
}

func (a *stayntouch) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"arrivalFrom": {p.StartDate}, "arrivalTo": {p.EndDate}}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/hotels/"+a.hotelID+"/reservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out)
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "totalAmount", "balance")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "id", "confirmationNumber"),
			GuestName:  guestName(m),
			RoomTypeID: firstID(m, "roomTypeId"),
			CheckIn:    dateStr(m, "arrivalDate", "checkinDate"),
			CheckOut:   dateStr(m, "departureDate", "checkoutDate"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rs, nil
}

func (a *stayntouch) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/hotels/"+a.hotelID+"/room-types", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out)
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "maxOccupancy", "capacity")
		rt := domain.RoomType{
			ID:       firstID(m, "id", "code"),
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

func (a *stayntouch) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/hotels/"+a.hotelID+"/rates", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out)
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "amount", "baseAmount")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "id", "code"),
			Name:       firstStr(m, "name"),
			RoomTypeID: firstID(m, "roomTypeId"),
			Price:      price,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rates, nil
}

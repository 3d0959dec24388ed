// internal/adapters/pms/hotelogix.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Hotelogix: API key appended as "apikey" to every URL. Collections sit
// inside a "data" envelope under named keys. Default currency INR.
type hotelogix struct {
	*client
	hotelCode string
}

func newHotelogix(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	key, err := cred(domain.ProviderHotelogix, creds, "api_key")
	if err != nil {
		return nil, err
	}
	code, err := cred(domain.ProviderHotelogix, creds, "hotel_code")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.hotelogix.com/v1")
	auth := queryKey{key: key, param: "apikey", extra: url.Values{"hotelCode": {code}}}
	return &hotelogix{client: newClient(domain.ProviderHotelogix, base, auth, 5), hotelCode: code}, nil
}

func (a *hotelogix) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/hotel/details", nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(envelope(out, "data"), "hotel")
	return domain.HotelConfiguration{
		ID:       strOr(firstID(h, "hotelCode", "hotelId"), a.hotelCode),
		Name:     firstStr(h, "hotelName", "name"),
		Timezone: strOr(firstStr(h, "timezone", "timeZone"), "Asia/Kolkata"),
		Currency: currencyOr(h, "INR", "baseCurrency"),
		Address:  composeAddress(h),
	}, nil
}

func (a *hotelogix) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"fromDate": {p.StartDate}, "toDate": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("roomTypeCode", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/hotel/availability", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "availability")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "availableRooms", "available")
		rate, _ := firstFloat(m, "rate", "tariff")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "date"),
			RoomTypeID: firstID(m, "roomTypeCode", "roomTypeId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "INR"),
		})
	}
	return av, nil
}

func (a *hotelogix) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"arrivalFrom": {p.StartDate}, "arrivalTo": {p.EndDate}}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/hotel/reservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "reservations")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "totalAmount", "amount")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "reservationNo", "id"),
			GuestName:  guestName(m),
			RoomTypeID: firstID(m, "roomTypeCode", "roomTypeId"),
			CheckIn:    dateStr(m, "checkInDate", "arrival"),
			CheckOut:   dateStr(m, "checkOutDate", "departure"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "INR"),
		})
	}
	return rs, nil
}

func (a *hotelogix) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/hotel/roomtypes", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "roomTypes")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "maxOccupancy", "baseOccupancy")
		rt := domain.RoomType{
			ID:       firstID(m, "roomTypeCode", "roomTypeId"),
			Name:     firstStr(m, "roomTypeName", "name"),
			Capacity: capacity,
		}
		if d := firstStr(m, "description"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *hotelogix) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/hotel/rateplans", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "ratePlans")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "tariff", "rate")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "ratePlanCode", "id"),
			Name:       firstStr(m, "ratePlanName", "name"),
			RoomTypeID: firstID(m, "roomTypeCode", "roomTypeId"),
			Price:      price,
			Currency:   currencyOr(m, "INR"),
		})
	}
	return rates, nil
}

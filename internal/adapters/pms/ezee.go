// internal/adapters/pms/ezee.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// eZee Absolute: auth code appended as "authcode" to every URL together
// with the hotel code. PascalCase payloads nested one envelope deep
// (for example {"RoomInfo": {"RoomTypes": [...]}}). Default currency
// INR.
type ezee struct {
	*client
	hotelCode string
}

func newEzee(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	authCode, err := cred(domain.ProviderEzee, creds, "auth_code")
	if err != nil {
		return nil, err
	}
	code, err := cred(domain.ProviderEzee, creds, "hotel_code")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://live.ipms247.com/booking/reservation_api")
	auth := queryKey{key: authCode, param: "authcode", extra: url.Values{"HotelCode": {code}}}
	return &ezee{client: newClient(domain.ProviderEzee, base, auth, 5), hotelCode: code}, nil
}

func (a *ezee) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/hotel_info", nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "HotelInfo", "Hotel")
	return domain.HotelConfiguration{
		ID:       strOr(firstID(h, "HotelCode", "HotelId"), a.hotelCode),
		Name:     firstStr(h, "HotelName", "Name"),
		Timezone: strOr(firstStr(h, "TimeZone", "Timezone"), "Asia/Kolkata"),
		Currency: currencyOr(h, "INR", "CurrencyCode", "Currency"),
		Address:  composeAddress(h),
	}, nil
}

func (a *ezee) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"FromDate": {p.StartDate}, "ToDate": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("RoomTypeId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/room_availability", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "RoomAvailability", "Availability")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "AvailableRooms", "Available")
		rate, _ := firstFloat(m, "Rate", "BaseRate")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "Date", "AvailDate"),
			RoomTypeID: firstID(m, "RoomTypeId", "RoomTypeID"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "INR", "CurrencyCode"),
		})
	}
	return av, nil
}

func (a *ezee) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"ArrivalFrom": {p.StartDate}, "ArrivalTo": {p.EndDate}}
	if p.Status != "" {
		q.Set("BookingStatus", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/bookings", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "Reservations", "BookingList")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "TotalAmount", "Total")
		name := firstStr(m, "GuestName")
		if name == "" {
			parts := joinParts(firstStr(m, "Salutation"), firstStr(m, "FirstName"), firstStr(m, "LastName"))
			name = strOr(parts, "Guest")
		}
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "ReservationNo", "BookingId"),
			GuestName:  name,
			RoomTypeID: firstID(m, "RoomTypeId", "RoomTypeID"),
			CheckIn:    dateStr(m, "ArrivalDate", "CheckInDate"),
			CheckOut:   dateStr(m, "DepartureDate", "CheckOutDate"),
			Status:     firstStr(m, "BookingStatus", "Status"),
			Total:      total,
			Currency:   currencyOr(m, "INR", "CurrencyCode"),
		})
	}
	return rs, nil
}

func (a *ezee) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/room_info", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "RoomInfo", "RoomTypes")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "MaxOccupancy", "BaseOccupancy")
		rt := domain.RoomType{
			ID:       firstID(m, "RoomTypeId", "RoomTypeID"),
			Name:     firstStr(m, "RoomTypeName", "Name"),
			Capacity: capacity,
		}
		if d := firstStr(m, "Description"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *ezee) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/rate_info", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "RateInfo", "RateTypes")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "Rate", "BaseRate")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "RateTypeId", "RateTypeID"),
			Name:       firstStr(m, "RateTypeName", "Name"),
			RoomTypeID: firstID(m, "RoomTypeId", "RoomTypeID"),
			Price:      price,
			Currency:   currencyOr(m, "INR", "CurrencyCode"),
		})
	}
	return rates, nil
}

func joinParts(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}

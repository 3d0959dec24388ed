// internal/adapters/pms/opera.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Oracle OPERA Cloud: client credentials with Basic-encoded token
// request. Collections arrive nested one envelope deep (for example
// {"reservations": {"reservationInfo": [...]}}). Default currency USD.
type opera struct {
	*client
	hotelID string
}

func newOpera(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	id, err := cred(domain.ProviderOpera, creds, "client_id")
	if err != nil {
		return nil, err
	}
	secret, err := cred(domain.ProviderOpera, creds, "client_secret")
	if err != nil {
		return nil, err
	}
	hotelID, err := cred(domain.ProviderOpera, creds, "hotel_id")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.oracle-hospitality.com")
	if env == domain.EnvSandbox && creds["base_url"] == "" {
		base = "https://api-sandbox.oracle-hospitality.com"
	}
	auth := newClientCredentials(domain.ProviderOpera, base+"/oauth/v1/tokens", id, secret, true)
	return &opera{client: newClient(domain.ProviderOpera, base, auth, 5), hotelID: hotelID}, nil
}

func (a *opera) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/crm/v1/hotels/"+a.hotelID, nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "hotelConfigInfo", "hotelInfo")
	return domain.HotelConfiguration{
		ID:       strOr(firstID(h, "hotelId", "hotelCode"), a.hotelID),
		Name:     firstStr(h, "hotelName", "name"),
		Timezone: strOr(firstStr(h, "timeZoneRegion", "timezone"), "UTC"),
		Currency: currencyOr(h, "USD", "currencyCode", "baseCurrencyCode"),
		Address:  composeAddress(h),
	}, nil
}

func (a *opera) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"startDate": {p.StartDate}, "endDate": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("roomType", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/par/v1/hotels/"+a.hotelID+"/availability", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "hotelAvailability", "roomStays")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "availableRooms", "numberOfUnits")
		rate, _ := firstFloat(m, "rateAmount.amount", "amountBeforeTax")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "arrivalDate", "date"),
			RoomTypeID: firstID(m, "roomType", "roomTypeCode"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "USD", "rateAmount.currencyCode"),
		})
	}
	return av, nil
}

func (a *opera) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"arrivalStartDate": {p.StartDate}, "arrivalEndDate": {p.EndDate}}
	if p.Status != "" {
		q.Set("reservationStatus", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/rsv/v1/hotels/"+a.hotelID+"/reservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "reservations", "reservationInfo")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "totalAmount.amount", "projectedRevenue.amount")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "reservationId", "confirmationNumber"),
			GuestName:  guestName(envelope(m, "guestInfo")),
			RoomTypeID: firstID(m, "roomType", "roomTypeCode"),
			CheckIn:    dateStr(m, "arrivalDate"),
			CheckOut:   dateStr(m, "departureDate"),
			Status:     firstStr(m, "reservationStatus", "status"),
			Total:      total,
			Currency:   currencyOr(m, "USD", "totalAmount.currencyCode"),
		})
	}
	return rs, nil
}

func (a *opera) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/rtp/v1/hotels/"+a.hotelID+"/roomTypes", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "roomTypes", "roomTypeInfo")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "maximumOccupancy", "maxOccupancy")
		rt := domain.RoomType{
			ID:       firstID(m, "roomType", "roomTypeCode"),
			Name:     firstStr(m, "shortDescription", "label"),
			Capacity: capacity,
		}
		if d := firstStr(m, "longDescription"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *opera) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/rtp/v1/hotels/"+a.hotelID+"/ratePlans", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "ratePlans", "ratePlanInfo")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "rateAmount.amount", "amount")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "ratePlanCode", "rateCode"),
			Name:       firstStr(m, "ratePlanName", "description"),
			RoomTypeID: firstID(m, "roomType", "roomTypeCode"),
			Price:      price,
			Currency:   currencyOr(m, "USD", "rateAmount.currencyCode"),
		})
	}
	return rates, nil
}

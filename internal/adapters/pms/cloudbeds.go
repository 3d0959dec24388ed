// internal/adapters/pms/cloudbeds.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Cloudbeds: OAuth2 client credentials (form-encoded). Responses wrap
// everything in a "data" envelope. Default currency USD.
type cloudbeds struct {
	*client
	propertyID string
}

func newCloudbeds(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	id, err := cred(domain.ProviderCloudbeds, creds, "client_id")
	if err != nil {
		return nil, err
	}
	secret, err := cred(domain.ProviderCloudbeds, creds, "client_secret")
	if err != nil {
		return nil, err
	}
	pid, err := cred(domain.ProviderCloudbeds, creds, "property_id")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.cloudbeds.com/api/v1.2")
	if env == domain.EnvSandbox && creds["base_url"] == "" {
		base = "https://api-sandbox.cloudbeds.com/api/v1.2"
	}
	auth := newClientCredentials(domain.ProviderCloudbeds, base+"/access_token", id, secret, false)
	return &cloudbeds{client: newClient(domain.ProviderCloudbeds, base, auth, 5), propertyID: pid}, nil
}

func (a *cloudbeds) query() url.Values {
	return url.Values{"propertyID": {a.propertyID}}
}

func (a *cloudbeds) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/getHotelDetails", a.query(), &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "data")
	return domain.HotelConfiguration{
		ID:       strOr(firstID(h, "propertyID", "propertyId"), a.propertyID),
		Name:     firstStr(h, "propertyName", "name"),
		Timezone: strOr(firstStr(h, "propertyTimezone", "timezone"), "UTC"),
		Currency: currencyOr(h, "USD", "propertyCurrency.currencyCode"),
		Address:  composeAddress(h),
	}, nil
}

func (a *cloudbeds) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := a.query()
	q.Set("startDate", p.StartDate)
	q.Set("endDate", p.EndDate)
	if p.RoomTypeID != "" {
		q.Set("roomTypeID", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/getAvailability", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "availability")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "roomsAvailable", "available")
		rate, _ := firstFloat(m, "roomRate", "rate")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "date"),
			RoomTypeID: firstID(m, "roomTypeID", "roomTypeId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return av, nil
}

func (a *cloudbeds) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := a.query()
	q.Set("checkInFrom", p.StartDate)
	q.Set("checkInTo", p.EndDate)
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/getReservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "reservations")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "total", "grandTotal", "balance")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "reservationID", "reservationId"),
			GuestName:  guestName(m),
			RoomTypeID: firstID(m, "roomTypeID", "roomTypeId"),
			CheckIn:    dateStr(m, "startDate", "checkIn"),
			CheckOut:   dateStr(m, "endDate", "checkOut"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rs, nil
}

func (a *cloudbeds) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/getRoomTypes", a.query(), &out); err != nil {
		return nil, err
	}
	list := collection(out, "roomTypes")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "maxGuests", "roomTypeUnits")
		rt := domain.RoomType{
			ID:       firstID(m, "roomTypeID", "roomTypeId"),
			Name:     firstStr(m, "roomTypeName", "roomTypeNameShort"),
			Capacity: capacity,
		}
		if d := firstStr(m, "roomTypeDescription"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *cloudbeds) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/getRatePlans", a.query(), &out); err != nil {
		return nil, err
	}
	list := collection(out, "ratePlans")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "rate", "baseRate", "totalRate")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "ratePlanID", "rateID", "ratePlanId"),
			Name:       firstStr(m, "ratePlanName", "ratePlanNamePublic"),
			RoomTypeID: firstID(m, "roomTypeID", "roomTypeId"),
			Price:      price,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rates, nil
}

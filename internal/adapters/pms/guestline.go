// internal/adapters/pms/guestline.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Guestline: client credentials (form-encoded). PascalCase payloads
// with collections under "Rooms"/"Reservations"/"Rates". Default
// currency GBP.
type guestline struct {
	*client
	siteID string
}

func newGuestline(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	id, err := cred(domain.ProviderGuestline, creds, "client_id")
	if err != nil {
		return nil, err
	}
	secret, err := cred(domain.ProviderGuestline, creds, "client_secret")
	if err != nil {
		return nil, err
	}
	siteID, err := cred(domain.ProviderGuestline, creds, "site_id")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.guestline.com/rlx/v1")
	auth := newClientCredentials(domain.ProviderGuestline, base+"/oauth/token", id, secret, false)
	return &guestline{client: newClient(domain.ProviderGuestline, base, auth, 5), siteID: siteID}, nil
}

func (a *guestline) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/sites/"+a.siteID, nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "Site")
	name := firstStr(h, "SiteName", "Name")
	return domain.HotelConfiguration{
		ID:       strOr(firstID(h, "SiteId", "SiteCode"), a.siteID),
		Name:     name,
		Timezone: strOr(firstStr(h, "TimeZone"), "Europe/London"),
		Currency: currencyOr(h, "GBP", "CurrencyCode", "Currency"),
		Address:  composeAddress(h),
	}, nil
}

func (a *guestline) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"From": {p.StartDate}, "To": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("RoomTypeId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/sites/"+a.siteID+"/availability", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "Availability", "Days")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "RoomsAvailable", "Available")
		rate, _ := firstFloat(m, "Rate", "Price")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "Date"),
			RoomTypeID: firstID(m, "RoomTypeId", "RoomId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "GBP", "CurrencyCode"),
		})
	}
	return av, nil
}

func (a *guestline) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"ArrivalFrom": {p.StartDate}, "ArrivalTo": {p.EndDate}}
	if p.Status != "" {
		q.Set("Status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/sites/"+a.siteID+"/reservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "Reservations", "Bookings")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "TotalAmount", "Total")
		name := firstStr(m, "GuestName", "LeadGuest.Name")
		if name == "" {
			name = guestName(envelope(m, "LeadGuest", "Guest"))
		}
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "ReservationId", "BookingRef"),
			GuestName:  name,
			RoomTypeID: firstID(m, "RoomTypeId", "RoomId"),
			CheckIn:    dateStr(m, "ArrivalDate", "Arrival"),
			CheckOut:   dateStr(m, "DepartureDate", "Departure"),
			Status:     firstStr(m, "Status"),
			Total:      total,
			Currency:   currencyOr(m, "GBP", "CurrencyCode"),
		})
	}
	return rs, nil
}

func (a *guestline) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/sites/"+a.siteID+"/rooms", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "Rooms", "RoomTypes")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "Sleeps", "MaxOccupancy")
		rt := domain.RoomType{
			ID:       firstID(m, "RoomTypeId", "RoomId"),
			Name:     firstStr(m, "Name", "RoomTypeName"),
			Capacity: capacity,
		}
		if d := firstStr(m, "Description"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *guestline) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/sites/"+a.siteID+"/rates", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "Rates", "RatePlans")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "Price", "Amount")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "RateId", "RatePlanId"),
			Name:       firstStr(m, "Name", "RateName"),
			RoomTypeID: firstID(m, "RoomTypeId", "RoomId"),
			Price:      price,
			Currency:   currencyOr(m, "GBP", "CurrencyCode"),
		})
	}
	return rates, nil
}

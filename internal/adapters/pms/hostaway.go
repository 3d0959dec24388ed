// internal/adapters/pms/hostaway.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Hostaway: client credentials (account id + secret, form-encoded).
// Collections live under a "result" key. Default currency USD.
type hostaway struct {
	*client
	accountID string
}

func newHostaway(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	accountID, err := cred(domain.ProviderHostaway, creds, "account_id")
	if err != nil {
		return nil, err
	}
	secret, err := cred(domain.ProviderHostaway, creds, "client_secret")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.hostaway.com/v1")
	auth := newClientCredentials(domain.ProviderHostaway, base+"/accessTokens", accountID, secret, false)
	auth.extraForm = url.Values{"scope": {"general"}}
	return &hostaway{client: newClient(domain.ProviderHostaway, base, auth, 5), accountID: accountID}, nil
}

func (a *hostaway) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/accounts/"+a.accountID, nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "result")
	return domain.HotelConfiguration{
		ID:       strOr(firstID(h, "id", "accountId"), a.accountID),
		Name:     firstStr(h, "name", "companyName"),
		Timezone: strOr(firstStr(h, "timezone", "timeZoneName"), "UTC"),
		Currency: currencyOr(h, "USD", "defaultCurrency"),
		Address:  composeAddress(h),
	}, nil
}

func (a *hostaway) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"startDate": {p.StartDate}, "endDate": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("listingId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/listings/calendar", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "result", "calendar")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "availableUnits", "isAvailable")
		rate, _ := firstFloat(m, "price", "dailyRate")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "date"),
			RoomTypeID: firstID(m, "listingId", "listingMapId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return av, nil
}

func (a *hostaway) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"arrivalStartDate": {p.StartDate}, "arrivalEndDate": {p.EndDate}}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/reservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "result")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "totalPrice", "grandTotal")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "id", "hostawayReservationId"),
			GuestName:  guestName(m),
			RoomTypeID: firstID(m, "listingId", "listingMapId"),
			CheckIn:    dateStr(m, "arrivalDate", "checkInDate"),
			CheckOut:   dateStr(m, "departureDate", "checkOutDate"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rs, nil
}

func (a *hostaway) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/listings", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "result")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "personCapacity", "guestsIncluded")
		rt := domain.RoomType{
			ID:       firstID(m, "id", "listingMapId"),
			Name:     firstStr(m, "name", "internalListingName"),
			Capacity: capacity,
		}
		if d := firstStr(m, "description"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *hostaway) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/listings", nil, &out); err != nil {
		return nil, err
	}
	// Hostaway has no separate rate-plan resource; the nightly base
	// price rides on the listing.
	list := collection(out, "result")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "price", "basePrice")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "id", "listingMapId") + "-base",
			Name:       strOr(firstStr(m, "name"), "Base rate"),
			RoomTypeID: firstID(m, "id", "listingMapId"),
			Price:      price,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rates, nil
}

// internal/adapters/pms/guesty.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Guesty: client credentials against an OAuth2 endpoint; collections
// under "results". Default currency USD.
type guesty struct {
	*client
}

func newGuesty(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	id, err := cred(domain.ProviderGuesty, creds, "client_id")
	if err != nil {
		return nil, err
	}
	secret, err := cred(domain.ProviderGuesty, creds, "client_secret")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://open-api.guesty.com/v1")
	tokenURL := strOr(creds["token_url"], "https://open-api.guesty.com/oauth2/token")
	if creds["base_url"] != "" && creds["token_url"] == "" {
		tokenURL = base + "/oauth2/token"
	}
	auth := newClientCredentials(domain.ProviderGuesty, tokenURL, id, secret, false)
	return &guesty{client: newClient(domain.ProviderGuesty, base, auth, 5)}, nil
}

func (a *guesty) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/accounts/me", nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "account")
	return domain.HotelConfiguration{
		ID:       firstID(h, "_id", "id", "accountId"),
		Name:     firstStr(h, "name", "companyName"),
		Timezone: strOr(firstStr(h, "timezone", "timeZone"), "UTC"),
		Currency: currencyOr(h, "USD", "baseCurrency"),
		Address:  composeAddress(h),
	}, nil
}

func (a *guesty) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"startDate": {p.StartDate}, "endDate": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("listingId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/availability-pricing/api/calendar/listings", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "days")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "allotment", "available")
		rate, _ := firstFloat(m, "price", "basePrice")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "date"),
			RoomTypeID: firstID(m, "listingId", "listing._id"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return av, nil
}

func (a *guesty) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"checkInDateFrom": {p.StartDate}, "checkInDateTo": {p.EndDate}}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/reservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out)
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "money.totalPrice", "money.netAmount")
		name := firstStr(m, "guest.fullName")
		if name == "" {
			name = guestName(envelope(m, "guest"))
		}
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "_id", "id", "confirmationCode"),
			GuestName:  name,
			RoomTypeID: firstID(m, "listingId", "listing._id"),
			CheckIn:    dateStr(m, "checkIn", "checkInDateLocalized"),
			CheckOut:   dateStr(m, "checkOut", "checkOutDateLocalized"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "USD", "money.currency"),
		})
	}
	return rs, nil
}

func (a *guesty) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/listings", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out)
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "accommodates", "maxGuests")
		rt := domain.RoomType{
			ID:       firstID(m, "_id", "id"),
			Name:     firstStr(m, "title", "nickname"),
			Capacity: capacity,
		}
		if d := firstStr(m, "publicDescription.summary", "description"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *guesty) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/listings", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out)
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "prices.basePrice", "basePrice")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "_id", "id") + "-base",
			Name:       strOr(firstStr(m, "title", "nickname"), "Base rate"),
			RoomTypeID: firstID(m, "_id", "id"),
			Price:      price,
			Currency:   currencyOr(m, "USD", "prices.currency"),
		})
	}
	return rates, nil
}

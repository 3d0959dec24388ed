// internal/adapters/pms/apaleo.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Apaleo: OAuth2 client credentials against a separate identity host,
// credentials Basic-encoded. Collections sit under explicit named keys
// ("unitGroups", "ratePlans", "reservations", "timeSlices"). Default
// currency EUR.
type apaleo struct {
	*client
	propertyID string
}

func newApaleo(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	id, err := cred(domain.ProviderApaleo, creds, "client_id")
	if err != nil {
		return nil, err
	}
	secret, err := cred(domain.ProviderApaleo, creds, "client_secret")
	if err != nil {
		return nil, err
	}
	pid, err := cred(domain.ProviderApaleo, creds, "property_id")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.apaleo.com")
	tokenURL := strOr(creds["token_url"], "https://identity.apaleo.com/connect/token")
	if creds["base_url"] != "" && creds["token_url"] == "" {
		tokenURL = base + "/connect/token"
	}
	auth := newClientCredentials(domain.ProviderApaleo, tokenURL, id, secret, true)
	return &apaleo{client: newClient(domain.ProviderApaleo, base, auth, 5), propertyID: pid}, nil
}

func (a *apaleo) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/inventory/v1/properties/"+a.propertyID, nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	return domain.HotelConfiguration{
		ID:       strOr(firstID(out, "id", "code"), a.propertyID),
		Name:     firstStr(out, "name", "description"),
		Timezone: strOr(firstStr(out, "timeZone", "timezone"), "UTC"),
		Currency: currencyOr(out, "EUR", "currencyCode", "defaultCurrency"),
		Address:  composeAddress(envelope(out, "location")),
	}, nil
}

func (a *apaleo) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"propertyId": {a.propertyID}, "from": {p.StartDate}, "to": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("unitGroupId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/availability/v1/unit-groups", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "timeSlices")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "availableCount", "soldCount")
		rate, _ := firstFloat(m, "baseAmount.grossAmount", "baseAmount.amount")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "from", "date"),
			RoomTypeID: firstID(m, "unitGroup.id", "unitGroupId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "EUR", "baseAmount.currency"),
		})
	}
	return av, nil
}

func (a *apaleo) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"propertyIds": {a.propertyID}, "from": {p.StartDate}, "to": {p.EndDate}}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/booking/v1/reservations", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "reservations")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "totalGrossAmount.amount", "balance.amount")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "id", "bookingId"),
			GuestName:  guestName(envelope(m, "primaryGuest")),
			RoomTypeID: firstID(m, "unitGroup.id", "unitGroupId"),
			CheckIn:    dateStr(m, "arrival"),
			CheckOut:   dateStr(m, "departure"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "EUR", "totalGrossAmount.currency"),
		})
	}
	return rs, nil
}

func (a *apaleo) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/inventory/v1/unit-groups", url.Values{"propertyId": {a.propertyID}}, &out); err != nil {
		return nil, err
	}
	list := collection(out, "unitGroups")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "maxPersons", "memberCount")
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

func (a *apaleo) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/rateplan/v1/rate-plans", url.Values{"propertyId": {a.propertyID}}, &out); err != nil {
		return nil, err
	}
	list := collection(out, "ratePlans")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "price.amount", "baseAmount.amount")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "id", "code"),
			Name:       firstStr(m, "name"),
			RoomTypeID: firstID(m, "unitGroup.id", "unitGroupId"),
			Price:      price,
			Currency:   currencyOr(m, "EUR", "price.currency"),
		})
	}
	return rates, nil
}

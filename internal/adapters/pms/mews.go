// internal/adapters/pms/mews.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Mews: long-lived access token sent in an "AccessToken" header.
// PascalCase payloads with collections under named keys
// ("Enterprises", "Categories", "Reservations"). Default currency EUR.
type mews struct {
	*client
}

func newMews(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	token, err := cred(domain.ProviderMews, creds, "access_token")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.mews.com/api/connector/v1")
	if env == domain.EnvSandbox && creds["base_url"] == "" {
		base = "https://api.mews-demo.com/api/connector/v1"
	}
	return &mews{client: newClient(domain.ProviderMews, base, apiKey{key: token, header: "AccessToken"}, 5)}, nil
}

func (a *mews) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/enterprises/get", nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "Enterprise")
	if es := collection(out, "Enterprises"); len(es) > 0 {
		h = es[0]
	}
	return domain.HotelConfiguration{
		ID:       firstID(h, "Id"),
		Name:     firstStr(h, "Name", "LegalName"),
		Timezone: strOr(firstStr(h, "TimeZoneIdentifier", "TimeZone"), "UTC"),
		Currency: currencyOr(h, "EUR", "DefaultCurrencyCode"),
		Address:  composeAddress(envelope(h, "Address")),
	}, nil
}

func (a *mews) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"StartUtc": {p.StartDate}, "EndUtc": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("CategoryId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/services/getAvailability", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "CategoryAvailabilities", "Availabilities")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "Availability", "AvailableCount")
		rate, _ := firstFloat(m, "Price.Value", "Amount")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "Date", "StartUtc"),
			RoomTypeID: firstID(m, "CategoryId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "EUR", "Price.Currency"),
		})
	}
	return av, nil
}

func (a *mews) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"StartUtc": {p.StartDate}, "EndUtc": {p.EndDate}}
	if p.Status != "" {
		q.Set("State", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/reservations/getAll", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "Reservations")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "TotalAmount.Value", "Amount")
		name := firstStr(m, "Customer.Name")
		if name == "" {
			cust := envelope(m, "Customer")
			name = firstStr(cust, "FirstName")
			if last := firstStr(cust, "LastName"); last != "" {
				if name != "" {
					name += " "
				}
				name += last
			}
			if name == "" {
				name = "Guest"
			}
		}
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "Id", "Number"),
			GuestName:  name,
			RoomTypeID: firstID(m, "RequestedCategoryId", "AssignedResourceId"),
			CheckIn:    dateStr(m, "StartUtc"),
			CheckOut:   dateStr(m, "EndUtc"),
			Status:     firstStr(m, "State"),
			Total:      total,
			Currency:   currencyOr(m, "EUR", "TotalAmount.Currency"),
		})
	}
	return rs, nil
}

func (a *mews) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/resourceCategories/getAll", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "ResourceCategories", "Categories")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "Capacity", "ExtraCapacity")
		rt := domain.RoomType{
			ID:       firstID(m, "Id"),
			Name:     firstStr(m, "Names.en-US", "Name"),
			Capacity: capacity,
		}
		if d := firstStr(m, "Descriptions.en-US", "Description"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *mews) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/rates/getAll", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "Rates")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "BaseAmount.Value", "Amount")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "Id"),
			Name:       firstStr(m, "Name", "ShortName"),
			RoomTypeID: firstID(m, "CategoryId", "ServiceId"),
			Price:      price,
			Currency:   currencyOr(m, "EUR", "BaseAmount.Currency"),
		})
	}
	return rates, nil
}

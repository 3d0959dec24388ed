// internal/adapters/pms/channex.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// Channex: static API key in a "user-api-key" header. JSON:API style —
// every record is {"id": ..., "attributes": {...}} under "data", so the
// attributes get flattened before normalization. Default currency USD.
type channex struct {
	*client
	propertyID string
}

func newChannex(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	key, err := cred(domain.ProviderChannex, creds, "api_key")
	if err != nil {
		return nil, err
	}
	pid, err := cred(domain.ProviderChannex, creds, "property_id")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://app.channex.io/api/v1")
	if env == domain.EnvSandbox && creds["base_url"] == "" {
		base = "https://staging.channex.io/api/v1"
	}
	return &channex{client: newClient(domain.ProviderChannex, base, apiKey{key: key, header: "user-api-key"}, 5), propertyID: pid}, nil
}

// flatten folds a JSON:API record's attributes up one level, keeping
// the record id.
func flatten(m map[string]any) map[string]any {
	attrs, ok := m["attributes"].(map[string]any)
	if !ok {
		return m
	}
	out := make(map[string]any, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	if _, ok := out["id"]; !ok {
		if id, ok := m["id"]; ok {
			out["id"] = id
		}
	}
	return out
}

func flattenAll(in []map[string]any) []map[string]any {
	out := make([]map[string]any, len(in))
	for i, m := range in {
		out[i] = flatten(m)
	}
	return out
}

func (a *channex) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/properties/"+a.propertyID, nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := flatten(envelope(out, "data"))
	return domain.HotelConfiguration{
		ID:       strOr(firstID(h, "id"), a.propertyID),
		Name:     firstStr(h, "title", "name"),
		Timezone: strOr(firstStr(h, "timezone"), "UTC"),
		Currency: currencyOr(h, "USD"),
		Address:  composeAddress(h),
	}, nil
}

func (a *channex) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{
		"filter[property_id]": {a.propertyID},
		"filter[date][gte]":   {p.StartDate},
		"filter[date][lte]":   {p.EndDate},
	}
	if p.RoomTypeID != "" {
		q.Set("filter[room_type_id]", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/availability", q, &out); err != nil {
		return nil, err
	}
	cells := flattenAll(collection(out))
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "availability", "count")
		rate, _ := firstFloat(m, "rate", "price")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "date"),
			RoomTypeID: firstID(m, "room_type_id"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return av, nil
}

func (a *channex) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{
		"filter[property_id]":  {a.propertyID},
		"filter[arrival][gte]": {p.StartDate},
		"filter[arrival][lte]": {p.EndDate},
	}
	if p.Status != "" {
		q.Set("filter[status]", p.Status)
	}
	var out any
	if err := a.getJSON(ctx, "/bookings", q, &out); err != nil {
		return nil, err
	}
	list := flattenAll(collection(out))
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		total, _ := firstFloat(m, "amount", "total_price")
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "id", "unique_id"),
			GuestName:  guestName(m),
			RoomTypeID: firstID(m, "room_type_id", "rooms.room_type_id"),
			CheckIn:    dateStr(m, "arrival_date", "arrival"),
			CheckOut:   dateStr(m, "departure_date", "departure"),
			Status:     firstStr(m, "status"),
			Total:      total,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rs, nil
}

func (a *channex) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/room_types", url.Values{"filter[property_id]": {a.propertyID}}, &out); err != nil {
		return nil, err
	}
	list := flattenAll(collection(out))
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "occ_adults", "capacity")
		rt := domain.RoomType{
			ID:       firstID(m, "id"),
			Name:     firstStr(m, "title", "name"),
			Capacity: capacity,
		}
		if d := firstStr(m, "description", "content.description"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *channex) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/rate_plans", url.Values{"filter[property_id]": {a.propertyID}}, &out); err != nil {
		return nil, err
	}
	list := flattenAll(collection(out))
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "rate", "price")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "id"),
			Name:       firstStr(m, "title", "name"),
			RoomTypeID: firstID(m, "room_type_id"),
			Price:      price,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rates, nil
}

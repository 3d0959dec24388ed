// internal/adapters/pms/myallocator.go
package pms

import (
	"context"
	"net/url"

	"pms_gateway/internal/domain"
)

// MyAllocator: user token appended as "auth_token" to every URL,
// together with the property id. Collections under PascalCase named
// keys ("Rooms", "Bookings"). Default currency USD.
type myallocator struct {
	*client
	propertyID string
}

func newMyallocator(creds map[string]string, env domain.Environment) (domain.PMSAdapter, error) {
	token, err := cred(domain.ProviderMyallocator, creds, "auth_token")
	if err != nil {
		return nil, err
	}
	pid, err := cred(domain.ProviderMyallocator, creds, "property_id")
	if err != nil {
		return nil, err
	}

	base := baseURL(creds, "https://api.myallocator.com/pms/v201408")
	auth := queryKey{key: token, param: "auth_token", extra: url.Values{"auth_property_id": {pid}}}
	return &myallocator{client: newClient(domain.ProviderMyallocator, base, auth, 5), propertyID: pid}, nil
}

func (a *myallocator) GetConfiguration(ctx context.Context) (domain.HotelConfiguration, error) {
	var out map[string]any
	if err := a.getJSON(ctx, "/PropertyGet", nil, &out); err != nil {
		return domain.HotelConfiguration{}, err
	}
	h := envelope(out, "Property")
	return domain.HotelConfiguration{
		ID:       strOr(firstID(h, "PropertyId", "id"), a.propertyID),
		Name:     firstStr(h, "PropertyName", "Name"),
		Timezone: strOr(firstStr(h, "Timezone", "TimeZone"), "UTC"),
		Currency: currencyOr(h, "USD", "DefaultCurrency", "Currency"),
		Address:  composeAddress(h),
	}, nil
}

func (a *myallocator) GetAvailability(ctx context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	q := url.Values{"StartDate": {p.StartDate}, "EndDate": {p.EndDate}}
	if p.RoomTypeID != "" {
		q.Set("RoomId", p.RoomTypeID)
	}
	var out any
	if err := a.getJSON(ctx, "/RoomAvailabilityList", q, &out); err != nil {
		return nil, err
	}
	cells := collection(out, "Availability", "Rooms")
	av := make([]domain.Availability, 0, len(cells))
	for _, m := range cells {
		count, _ := firstInt(m, "Units", "Avail")
		rate, _ := firstFloat(m, "Price", "Rate")
		av = append(av, domain.Availability{
			Date:       dateStr(m, "Date"),
			RoomTypeID: firstID(m, "RoomId", "RoomTypeId"),
			Available:  count,
			Rate:       rate,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return av, nil
}

func (a *myallocator) GetReservations(ctx context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	q := url.Values{"ArrivalStartDate": {p.StartDate}, "ArrivalEndDate": {p.EndDate}}
	var out any
	if err := a.getJSON(ctx, "/BookingList", q, &out); err != nil {
		return nil, err
	}
	list := collection(out, "Bookings")
	rs := make([]domain.Reservation, 0, len(list))
	for _, m := range list {
		status := firstStr(m, "Status")
		if p.Status != "" && status != p.Status {
			continue
		}
		total, _ := firstFloat(m, "TotalPrice", "Price")
		name := firstStr(m, "GuestName")
		if name == "" {
			name = strOr(joinParts(firstStr(m, "GuestFirstName"), firstStr(m, "GuestLastName")), "Guest")
		}
		rs = append(rs, domain.Reservation{
			ID:         firstID(m, "MyallocatorId", "BookingId"),
			GuestName:  name,
			RoomTypeID: firstID(m, "RoomId", "RoomTypeId"),
			CheckIn:    dateStr(m, "StartDate", "ArrivalDate"),
			CheckOut:   dateStr(m, "EndDate", "DepartureDate"),
			Status:     status,
			Total:      total,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rs, nil
}

func (a *myallocator) GetRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out any
	if err := a.getJSON(ctx, "/RoomList", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "Rooms")
	rts := make([]domain.RoomType, 0, len(list))
	for _, m := range list {
		capacity, _ := firstInt(m, "Occupancy", "Beds")
		rt := domain.RoomType{
			ID:       firstID(m, "RoomId", "Id"),
			Name:     firstStr(m, "Label", "Name"),
			Capacity: capacity,
		}
		if d := firstStr(m, "Description"); d != "" {
			rt.Description = &d
		}
		rts = append(rts, rt)
	}
	return rts, nil
}

func (a *myallocator) GetRates(ctx context.Context) ([]domain.Rate, error) {
	var out any
	if err := a.getJSON(ctx, "/RatePlanList", nil, &out); err != nil {
		return nil, err
	}
	list := collection(out, "RatePlans")
	rates := make([]domain.Rate, 0, len(list))
	for _, m := range list {
		price, _ := firstFloat(m, "Price", "Rate")
		rates = append(rates, domain.Rate{
			ID:         firstID(m, "RatePlanId", "Id"),
			Name:       firstStr(m, "Name", "Label"),
			RoomTypeID: firstID(m, "RoomId", "RoomTypeId"),
			Price:      price,
			Currency:   currencyOr(m, "USD"),
		})
	}
	return rates, nil
}

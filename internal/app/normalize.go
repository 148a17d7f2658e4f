package app

import (
	"strings"

	"hotel_mailer/internal/domain"
)

// NormalizeBooking reconciles the nested (user / booking_data) and flat
// submission shapes into one Booking. Missing optional fields are fine;
// the only failure is a missing destination mailbox, after fallbackMailbox
// has been tried.
func NormalizeBooking(p map[string]any, fallbackMailbox string) (domain.Booking, error) {
	b := domain.Booking{
		Customer: customerFrom(p),
		Stay:     stayFrom(p),
		HotelID:  HotelIDOf(p),
		Currency: strings.ToUpper(firstNonEmpty(p, stayAliases["currency"]...)),
	}
	b.Rooms = roomsFrom(p, roomDefaults{nights: b.Stay.Nights, currency: b.Currency})

	if total, ok := toFloat(firstPresent(p, stayAliases["total"]...)); ok {
		b.TotalAmount = &total
	}

	b.HotelEmail = resolveMailbox(p, mailboxAliases["booking"], fallbackMailbox)
	if b.HotelEmail == "" {
		return domain.Booking{}, domain.ErrMissingHotelEmail
	}
	return b, nil
}

// NormalizeContact builds a Contact from either the nested user object or flat fields.
func NormalizeContact(p map[string]any, fallbackMailbox string) (domain.Contact, error) {
	cu := customerFrom(p)
	c := domain.Contact{
		FullName: cu.FullName,
		Email:    cu.Email,
		Phone:    cu.Phone,
		Country:  cu.Country,
		Message:  cu.Message,
		HotelID:  HotelIDOf(p),
	}
	c.HotelEmail = resolveMailbox(p, mailboxAliases["contact"], fallbackMailbox)
	if c.HotelEmail == "" {
		return domain.Contact{}, domain.ErrMissingHotelEmail
	}
	return c, nil
}

// HotelIDOf returns the submitted hotel identifier, if any.
func HotelIDOf(p map[string]any) string {
	return firstNonEmpty(p, mailboxAliases["hotelId"]...)
}

// HasExplicitMailbox reports whether the submission names its own destination.
func HasExplicitMailbox(p map[string]any, kind string) bool {
	return firstNonEmpty(p, mailboxAliases[kind]...) != ""
}

func resolveMailbox(p map[string]any, paths []string, fallback string) string {
	if s := firstNonEmpty(p, paths...); s != "" {
		return s
	}
	return strings.TrimSpace(fallback)
}

func customerFrom(p map[string]any) domain.Customer {
	return domain.Customer{
		FullName: firstNonEmpty(p, customerAliases["fullName"]...),
		Email:    firstNonEmpty(p, customerAliases["email"]...),
		Phone:    firstNonEmpty(p, customerAliases["phone"]...),
		Country:  firstNonEmpty(p, customerAliases["country"]...),
		Message:  firstNonEmpty(p, customerAliases["message"]...),
	}
}

func stayFrom(p map[string]any) domain.Stay {
	s := domain.Stay{
		CheckIn:    firstNonEmpty(p, stayAliases["checkIn"]...),
		CheckOut:   firstNonEmpty(p, stayAliases["checkOut"]...),
		AdultCount: firstNonEmpty(p, stayAliases["adultCount"]...),
		ChildCount: firstNonEmpty(p, stayAliases["childCount"]...),
	}
	s.CheckInAt = parseDate(s.CheckIn)
	s.CheckOutAt = parseDate(s.CheckOut)
	s.Nights = nightsBetween(s.CheckInAt, s.CheckOutAt)
	return s
}

/********** room list strategies **********/

type roomDefaults struct {
	nights   *int
	currency string
}

// roomSource yields raw room objects when its shape is present in the payload.
type roomSource func(p map[string]any) ([]map[string]any, bool)

// Tried in order; the first source that matches wins, even with zero rooms.
var roomSources = []roomSource{roomArray, singleRoom, flatRoom}

func roomsFrom(p map[string]any, def roomDefaults) []domain.RoomLine {
	for _, src := range roomSources {
		raw, ok := src(p)
		if !ok {
			continue
		}
		if len(raw) == 0 {
			return nil
		}
		out := make([]domain.RoomLine, 0, len(raw))
		for _, r := range raw {
			out = append(out, roomLine(r, def))
		}
		return out
	}
	return nil
}

func roomArray(p map[string]any) ([]map[string]any, bool) {
	for _, path := range []string{"booking_data.rooms", "rooms"} {
		arr, ok := lookupAny(p, path).([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(arr))
		for _, it := range arr {
			obj, _ := it.(map[string]any) // non-objects become an all-defaults line
			out = append(out, obj)
		}
		return out, true
	}
	return nil, false
}

func singleRoom(p map[string]any) ([]map[string]any, bool) {
	if obj, ok := firstObject(p, "booking_data.room", "room"); ok {
		return []map[string]any{obj}, true
	}
	return nil, false
}

func flatRoom(p map[string]any) ([]map[string]any, bool) {
	set := false
	for _, paths := range flatRoomAliases {
		for _, path := range paths {
			if truthy(lookupAny(p, path)) {
				set = true
			}
		}
	}
	if !set {
		return nil, false
	}
	return []map[string]any{{
		"name":          firstNonEmpty(p, flatRoomAliases["name"]...),
		"quantity":      firstPresent(p, flatRoomAliases["quantity"]...),
		"pricePerNight": firstPresent(p, flatRoomAliases["pricePerNight"]...),
		"nights":        firstPresent(p, stayAliases["nights"]...),
	}}, true
}

func roomLine(r map[string]any, def roomDefaults) domain.RoomLine {
	nights := 1
	if def.nights != nil {
		nights = *def.nights
	}
	currency := strings.ToUpper(firstNonEmpty(r, roomAliases["currency"]...))
	if currency == "" {
		currency = def.currency
	}
	return domain.RoomLine{
		Name:          firstNonEmpty(r, roomAliases["name"]...),
		Quantity:      positiveInt(firstPresent(r, roomAliases["quantity"]...), 1),
		PricePerNight: nonNegative(firstPresent(r, roomAliases["pricePerNight"]...), 0),
		Nights:        positiveInt(firstPresent(r, roomAliases["nights"]...), nights),
		Currency:      currency,
	}
}

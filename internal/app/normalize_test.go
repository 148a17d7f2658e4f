package app_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_mailer/internal/app"
	"hotel_mailer/internal/domain"
)

func payload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var p map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestNormalizeBooking_NestedExample(t *testing.T) {
	p := payload(t, `{
		"user": {"fullName": "Jane"},
		"booking_data": {
			"checkIn": "2024-01-01", "checkOut": "2024-01-04",
			"rooms": [{"name": "Deluxe", "quantity": 2, "pricePerNight": 100}]
		}
	}`)

	b, err := app.NormalizeBooking(p, "front@hotel.test")
	require.NoError(t, err)

	assert.Equal(t, "Jane", b.Customer.FullName)
	require.NotNil(t, b.Stay.Nights)
	assert.Equal(t, 3, *b.Stay.Nights)
	require.Len(t, b.Rooms, 1)
	assert.Equal(t, domain.RoomLine{Name: "Deluxe", Quantity: 2, PricePerNight: 100, Nights: 3}, b.Rooms[0])
	assert.Equal(t, 600.0, b.Rooms[0].LineTotal())
	assert.Equal(t, "front@hotel.test", b.HotelEmail)
	assert.Nil(t, b.TotalAmount)
}

func TestNormalizeBooking_MissingMailbox(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":        `{}`,
		"blank fields": `{"hotelEmail": "  ", "booking_data": {"hotelMail": ""}}`,
		"rooms only":   `{"rooms": [{"name": "Twin"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := app.NormalizeBooking(payload(t, raw), "")
			assert.ErrorIs(t, err, domain.ErrMissingHotelEmail)
		})
	}
}

func TestNormalizeBooking_NilPayload(t *testing.T) {
	b, err := app.NormalizeBooking(nil, "front@hotel.test")
	require.NoError(t, err)
	assert.Empty(t, b.Rooms)
	assert.Nil(t, b.Stay.Nights)
}

func TestNormalizeBooking_MailboxResolutionOrder(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"nested wins", `{"booking_data": {"hotelEmail": "a@x"}, "hotelEmail": "b@x", "hotelMail": "c@x"}`, "a@x"},
		{"flat next", `{"booking_data": {"hotelMail": "d@x"}, "hotelEmail": "b@x"}`, "b@x"},
		{"alternate nested", `{"booking_data": {"hotelMail": "d@x"}, "hotelMail": "c@x"}`, "d@x"},
		{"alternate flat", `{"hotelMail": "c@x"}`, "c@x"},
		{"fallback", `{}`, "fallback@x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := app.NormalizeBooking(payload(t, tc.raw), "fallback@x")
			require.NoError(t, err)
			assert.Equal(t, tc.want, b.HotelEmail)
		})
	}
}

func TestNormalizeBooking_NestedAndFlatAreEquivalent(t *testing.T) {
	nested := payload(t, `{
		"user": {"fullName": "Ana Lima", "email": "ana@mail.test", "phone": "+351 900", "country": "PT", "message": "late arrival"},
		"booking_data": {
			"checkIn": "2024-05-10", "checkOut": "2024-05-12", "adultCount": 2, "childCount": 1,
			"hotelEmail": "res@hotel.test", "totalPrice": 420,
			"rooms": [{"name": "Suite", "quantity": 1, "pricePerNight": 210}]
		}
	}`)
	flat := payload(t, `{
		"fullName": "Ana Lima", "email": "ana@mail.test", "phone": "+351 900", "country": "PT", "message": "late arrival",
		"checkIn": "2024-05-10", "checkOut": "2024-05-12", "adultCount": "2", "childCount": "1",
		"hotelEmail": "res@hotel.test", "totalPrice": "420",
		"rooms": [{"roomName": "Suite", "roomCount": "1", "price": "210"}]
	}`)

	a, err := app.NormalizeBooking(nested, "")
	require.NoError(t, err)
	b, err := app.NormalizeBooking(flat, "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalizeBooking_SingleRoomObject(t *testing.T) {
	p := payload(t, `{"hotelEmail": "h@x", "checkIn": "2024-03-01", "checkOut": "2024-03-03",
		"room": {"type": "Double", "roomCount": 3, "price": 80.5}}`)
	b, err := app.NormalizeBooking(p, "")
	require.NoError(t, err)
	require.Len(t, b.Rooms, 1)
	assert.Equal(t, domain.RoomLine{Name: "Double", Quantity: 3, PricePerNight: 80.5, Nights: 2}, b.Rooms[0])
}

func TestNormalizeBooking_ArrayBeatsSingleRoom(t *testing.T) {
	p := payload(t, `{"hotelEmail": "h@x", "rooms": [{"name": "A"}, {"name": "B"}], "room": {"name": "C"}}`)
	b, err := app.NormalizeBooking(p, "")
	require.NoError(t, err)
	require.Len(t, b.Rooms, 2)
	assert.Equal(t, "A", b.Rooms[0].Name)
	assert.Equal(t, "B", b.Rooms[1].Name)
}

func TestNormalizeBooking_EmptyArrayWins(t *testing.T) {
	p := payload(t, `{"hotelEmail": "h@x", "rooms": [], "roomName": "Ignored", "pricePerNight": 50}`)
	b, err := app.NormalizeBooking(p, "")
	require.NoError(t, err)
	assert.Empty(t, b.Rooms)
	assert.Nil(t, b.ComputedTotal())
}

func TestNormalizeBooking_FlatRoomFields(t *testing.T) {
	p := payload(t, `{"hotelEmail": "h@x", "roomType": "Standard", "roomCount": "2", "pricePerNight": "45", "nights": 4}`)
	b, err := app.NormalizeBooking(p, "")
	require.NoError(t, err)
	require.Len(t, b.Rooms, 1)
	assert.Equal(t, domain.RoomLine{Name: "Standard", Quantity: 2, PricePerNight: 45, Nights: 4}, b.Rooms[0])
}

func TestNormalizeBooking_FlatRoomUsesDerivedNights(t *testing.T) {
	p := payload(t, `{"hotelEmail": "h@x", "pricePerNight": 30, "checkIn": "2024-01-01", "checkOut": "2024-01-06"}`)
	b, err := app.NormalizeBooking(p, "")
	require.NoError(t, err)
	require.Len(t, b.Rooms, 1)
	assert.Equal(t, 5, b.Rooms[0].Nights)
	assert.Equal(t, 1, b.Rooms[0].Quantity)
	assert.Equal(t, "", b.Rooms[0].Name)
}

func TestNormalizeBooking_LenientCoercion(t *testing.T) {
	p := payload(t, `{"hotelEmail": "h@x", "rooms": [
		{"name": "X", "pricePerNight": "abc", "quantity": "many", "nights": "NaN"},
		{"name": "Y", "pricePerNight": -5, "quantity": 0, "nights": -2},
		{"name": "Z", "pricePerNight": "1e400", "quantity": "Infinity"},
		"not an object"
	]}`)
	b, err := app.NormalizeBooking(p, "")
	require.NoError(t, err)
	require.Len(t, b.Rooms, 4)
	for _, r := range b.Rooms {
		assert.Equal(t, 0.0, r.PricePerNight, r.Name)
		assert.Equal(t, 1, r.Quantity, r.Name)
		assert.Equal(t, 1, r.Nights, r.Name)
	}
	assert.Equal(t, "", b.Rooms[3].Name)
	require.NotNil(t, b.ComputedTotal())
	assert.Equal(t, 0.0, *b.ComputedTotal())
}

func TestNormalizeBooking_Dates(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		out    string
		nights *int
	}{
		{"iso", "2024-01-01", "2024-01-04", ptr(3)},
		{"timestamps", "2024-01-01T14:00:00Z", "2024-01-03T11:00:00Z", ptr(2)},
		{"same day clamps to one", "2024-01-01", "2024-01-01", ptr(1)},
		{"reversed clamps to one", "2024-01-05", "2024-01-01", ptr(1)},
		{"garbage", "soon", "2024-01-04", nil},
		{"missing checkout", "2024-01-01", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := map[string]any{"hotelEmail": "h@x", "checkIn": tc.in, "checkOut": tc.out}
			b, err := app.NormalizeBooking(p, "")
			require.NoError(t, err)
			assert.Equal(t, tc.nights, b.Stay.Nights)
			assert.Equal(t, tc.in, b.Stay.CheckIn)
		})
	}
}

func TestNormalizeBooking_ExplicitTotal(t *testing.T) {
	p := payload(t, `{"hotelEmail": "h@x", "booking_data": {"totalPrice": "999.5"}, "rooms": [{"pricePerNight": 10}]}`)
	b, err := app.NormalizeBooking(p, "")
	require.NoError(t, err)
	require.NotNil(t, b.GrandTotal())
	assert.Equal(t, 999.5, *b.GrandTotal())

	p = payload(t, `{"hotelEmail": "h@x", "totalPrice": "n/a", "rooms": [{"pricePerNight": 10}]}`)
	b, err = app.NormalizeBooking(p, "")
	require.NoError(t, err)
	assert.Nil(t, b.TotalAmount)
	assert.Equal(t, 10.0, *b.GrandTotal())
}

func TestNormalizeBooking_CurrencyInheritance(t *testing.T) {
	p := payload(t, `{"hotelEmail": "h@x", "currency": "eur", "rooms": [{"name": "A"}, {"name": "B", "currency": "usd"}]}`)
	b, err := app.NormalizeBooking(p, "")
	require.NoError(t, err)
	assert.Equal(t, "EUR", b.Currency)
	assert.Equal(t, "EUR", b.Rooms[0].Currency)
	assert.Equal(t, "USD", b.Rooms[1].Currency)
}

func TestNormalizeContact(t *testing.T) {
	c, err := app.NormalizeContact(payload(t, `{"user": {"fullName": "Bo", "email": "bo@x"}, "phone": 5551234, "hotelMail": "desk@x"}`), "fallback@x")
	require.NoError(t, err)
	assert.Equal(t, domain.Contact{FullName: "Bo", Email: "bo@x", Phone: "5551234", HotelEmail: "desk@x"}, c)

	c, err = app.NormalizeContact(map[string]any{}, "fallback@x")
	require.NoError(t, err)
	assert.Equal(t, "fallback@x", c.HotelEmail)

	_, err = app.NormalizeContact(map[string]any{"fullName": "Bo"}, "")
	assert.ErrorIs(t, err, domain.ErrMissingHotelEmail)
}

func TestHotelIDOf(t *testing.T) {
	assert.Equal(t, "42", app.HotelIDOf(payload(t, `{"booking_data": {"hotelId": 42}}`)))
	assert.Equal(t, "lis-01", app.HotelIDOf(payload(t, `{"hotel_id": "lis-01"}`)))
	assert.Equal(t, "", app.HotelIDOf(nil))
}

func ptr[T any](v T) *T { return &v }

package app

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"hotel_mailer/internal/domain"
)

const (
	notAvailable = "N/A"
	noMessage    = "No message provided"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Renderer turns canonical records into HTML mail bodies. It holds no
// per-request state and is safe for concurrent use.
type Renderer struct {
	money MoneyFormatter
}

func NewRenderer(money MoneyFormatter) *Renderer {
	if money == nil {
		money = NewLocaleFormatter("en-US", false)
	}
	return &Renderer{money: money}
}

type roomRow struct {
	Name          string
	Quantity      int
	PricePerNight string
	Nights        int
	LineTotal     string
}

type bookingView struct {
	Customer domain.Customer
	Message  string
	Stay     domain.Stay
	Rooms    []roomRow
	Total    string
}

func (r *Renderer) Booking(b domain.Booking) (string, error) {
	v := bookingView{
		Customer: b.Customer,
		Message:  orDefault(b.Customer.Message, noMessage),
		Stay:     b.Stay,
	}
	for _, room := range b.Rooms {
		v.Rooms = append(v.Rooms, roomRow{
			Name:          orDefault(room.Name, notAvailable),
			Quantity:      room.Quantity,
			PricePerNight: r.money.Format(room.PricePerNight, room.Currency),
			Nights:        room.Nights,
			LineTotal:     r.money.Format(room.LineTotal(), room.Currency),
		})
	}
	if total := b.GrandTotal(); total != nil {
		v.Total = r.money.Format(*total, totalCurrency(b))
	}
	return execute("booking.html", v)
}

func (r *Renderer) Contact(c domain.Contact) (string, error) {
	v := domain.Contact{
		FullName: orDefault(c.FullName, notAvailable),
		Email:    orDefault(c.Email, notAvailable),
		Phone:    orDefault(c.Phone, notAvailable),
		Country:  orDefault(c.Country, notAvailable),
		Message:  orDefault(c.Message, noMessage),
	}
	return execute("contact.html", v)
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// totalCurrency is the booking currency, or the one currency shared by every room.
func totalCurrency(b domain.Booking) string {
	if b.Currency != "" {
		return b.Currency
	}
	code := ""
	for i, room := range b.Rooms {
		if i > 0 && room.Currency != code {
			return ""
		}
		code = room.Currency
	}
	return code
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

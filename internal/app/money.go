package app

import (
	"math"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyFormatter renders amounts for the mail body. code is an optional
// ISO 4217 currency; implementations may ignore it.
type MoneyFormatter interface {
	Format(amount float64, code string) string
}

// LocaleFormatter groups digits per locale and keeps at most two fraction
// digits. With CurrencyAware set, a valid code switches to currency formatting.
type LocaleFormatter struct {
	p             *message.Printer
	CurrencyAware bool
}

// NewLocaleFormatter parses a BCP 47 tag; an invalid tag falls back to en-US.
func NewLocaleFormatter(locale string, currencyAware bool) *LocaleFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		log.Warn().Str("locale", locale).Err(err).Msg("unknown locale, using en-US")
		tag = language.AmericanEnglish
	}
	return &LocaleFormatter{p: message.NewPrinter(tag), CurrencyAware: currencyAware}
}

func (f *LocaleFormatter) Format(amount float64, code string) (out string) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return rawNumber(amount)
	}
	defer func() {
		if r := recover(); r != nil || out == "" {
			out = rawNumber(amount)
		}
	}()
	if f.CurrencyAware && code != "" {
		if unit, err := currency.ParseISO(code); err == nil {
			return f.p.Sprint(currency.Symbol(unit.Amount(amount)))
		}
	}
	return f.p.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(2)))
}

func rawNumber(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Package money renders display prices. The storefront shows localized
// currency strings (the frontend used Intl.NumberFormat en-PH / PHP); the
// backend produces the same strings for order summaries.
package money

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"drerwrk/config"
)

// Format renders an amount in the configured currency, e.g. "PHP 59,995.00".
func Format(amount float64) string {
	unit, err := currency.ParseISO(config.GetConfig().CurrencyTag)
	if err != nil {
		unit = currency.MustParseISO("PHP")
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}

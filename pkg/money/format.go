package money

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultLocale = "fr-FR"
	DefaultSymbol = "€"
)

// Formatter renders cents as a localized price string.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a Formatter for a BCP 47 locale. Unknown locales fall
// back to French, the shop's home market.
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.French
	}
	if strings.TrimSpace(symbol) == "" {
		symbol = DefaultSymbol
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		symbol:  symbol,
	}
}

// Format renders cents, e.g. 9998 -> "99,98 €" for fr-FR.
func (f *Formatter) Format(cents int64) string {
	amount, _ := ToDecimal(cents).Float64()
	return f.printer.Sprintf("%.2f", amount) + " " + f.symbol
}

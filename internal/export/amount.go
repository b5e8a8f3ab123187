package export

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// AmountFormatter renders monetary amounts with exactly two fraction digits
// using the grouping and decimal conventions of a fixed locale. It replaces
// process-wide locale state with an explicit value passed to the exporters.
type AmountFormatter struct {
	printer *message.Printer
}

func NewAmountFormatter(tag language.Tag) *AmountFormatter {
	return &AmountFormatter{printer: message.NewPrinter(tag)}
}

// Format renders the amount, e.g. 1234.5 becomes "1.234,50" under "da".
func (f *AmountFormatter) Format(amount decimal.Decimal) string {
	v, _ := amount.Round(2).Float64()
	return f.printer.Sprintf("%v", number.Decimal(v, number.Scale(2)))
}

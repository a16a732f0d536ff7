package reporting

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	dayLayout = "02/01/2006"
	isoLayout = "2006-01-02"
)

// formatter renders numbers and dates for one locale.
type formatter struct {
	printer *message.Printer
	dates   string
}

func newFormatter(locale string) formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.French
	}
	dates := isoLayout
	if base, _ := tag.Base(); base.String() == "fr" {
		dates = dayLayout
	}
	return formatter{printer: message.NewPrinter(tag), dates: dates}
}

// number prints integral values without decimals and the rest with two.
func (f formatter) number(v float64) string {
	if v == math.Trunc(v) {
		return f.fixed(v, 0)
	}
	return f.fixed(v, 2)
}

func (f formatter) fixed(v float64, decimals int) string {
	switch decimals {
	case 0:
		return f.printer.Sprintf("%.0f", v)
	case 1:
		return f.printer.Sprintf("%.1f", v)
	default:
		return f.printer.Sprintf("%.2f", v)
	}
}

func (f formatter) integer(n int) string {
	return f.printer.Sprintf("%d", n)
}

func (f formatter) date(t time.Time) string {
	return t.Format(f.dates)
}

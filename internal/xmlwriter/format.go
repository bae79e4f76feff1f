package xmlwriter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/fund-report-compiler/internal/types"
)

// FormatAmount renders a yen amount as a plain integer string. The value is
// rounded half-up once more; non-finite input renders as "0".
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return decimal.NewFromFloat(v).Add(decimal.NewFromFloat(0.5)).Floor().String()
}

// FormatYen renders an already rounded amount.
func FormatYen(v int64) string {
	return strconv.FormatInt(v, 10)
}

type era struct {
	prefix string
	start  time.Time
}

// eras is ordered newest first.
var eras = []era{
	{"R", time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)},
	{"H", time.Date(1989, 1, 8, 0, 0, 0, 0, time.UTC)},
	{"S", time.Date(1926, 12, 25, 0, 0, 0, 0, time.UTC)},
}

// FormatWareki renders a date as {era}{year}/{month}/{day}, e.g. "R7/1/15".
// Dates before the Showa era fall back to {year}/{month}/{day}. The zero
// time renders as "".
func FormatWareki(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	for _, e := range eras {
		if !day.Before(e.start) {
			return fmt.Sprintf("%s%d/%d/%d", e.prefix, y-e.start.Year()+1, int(m), d)
		}
	}
	return fmt.Sprintf("%d/%d/%d", y, int(m), d)
}

// FormatPeriod renders "{from}～{to}".
func FormatPeriod(p types.DateRange) string {
	return FormatWareki(p.From) + "～" + FormatWareki(p.To)
}

// FormatPeriods renders periods joined by commas.
func FormatPeriods(ps []types.DateRange) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = FormatPeriod(p)
	}
	return strings.Join(parts, ",")
}

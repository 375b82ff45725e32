//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/Masterminds/sprig/v3"

	"github.com/pgEdge/pgedge-salesdash/internal/filter"
	"github.com/pgEdge/pgedge-salesdash/internal/report"
	"github.com/pgEdge/pgedge-salesdash/internal/rfm"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is the model rendered by templates/index.html.
type pageData struct {
	Selection filter.Selection
	Options   filter.Options
	Dashboard *report.Dashboard
	Table     TableResponse
	Profiles  []rfm.Profile
	ExportURL string
	Version   string
}

func parsePage() (*template.Template, error) {
	funcs := sprig.FuncMap()
	funcs["money"] = formatMoney
	funcs["count"] = formatCount
	funcs["percent"] = formatPercent
	funcs["barWidth"] = barWidth

	page, err := template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}
	return page, nil
}

// formatMoney renders an amount as $1,234.56.
func formatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole, frac := math.Modf(math.Round(v*100) / 100)
	cents := int(math.Round(frac * 100))
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(strconv.FormatInt(int64(whole), 10)), cents)
}

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
	if n < 0 {
		return "-" + groupThousands(strconv.Itoa(-n))
	}
	return groupThousands(strconv.Itoa(n))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// formatPercent renders a 0..1 ratio as a percentage.
func formatPercent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%"
}

// barWidth scales v against the largest magnitude in points, as a CSS
// percentage.
func barWidth(v float64, points []report.Point) float64 {
	largest := 0.0
	for _, p := range points {
		largest = math.Max(largest, math.Abs(p.Value))
	}
	if largest == 0 {
		return 0
	}
	return math.Round(math.Abs(v)/largest*1000) / 10
}

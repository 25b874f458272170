package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/Junction-25/pdf-service/internal/model"
)

// formatAmount renders a whole-number amount with thousands separators
func formatAmount(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(math.Round(v)), 'f', 0, 64)

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// formatMoney is formatAmount followed by the currency code
func formatMoney(v float64, currency string) string {
	return formatAmount(v) + " " + currency
}

// formatArea prints whole areas without decimals and others with one
func formatArea(v float64) string {
	if v == math.Trunc(v) {
		return formatAmount(v) + " m²"
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " m²"
}

// pricePerArea returns price/area, false when the area is not positive
func pricePerArea(p model.Property) (float64, bool) {
	if p.AreaSqm <= 0 {
		return 0, false
	}
	return p.Price / p.AreaSqm, true
}

// formatPricePerArea renders price per m² or "n/a"
func formatPricePerArea(p model.Property, currency string) string {
	v, ok := pricePerArea(p)
	if !ok {
		return "n/a"
	}
	return formatMoney(v, currency) + "/m²"
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100), 'f', 0, 64) + "%"
}

func propertyLabel(p model.Property) string {
	return "Property #" + strconv.FormatInt(p.ID, 10)
}

func propertyLabelID(id int64) string {
	return "Property #" + strconv.FormatInt(id, 10)
}

func yesNo(ok bool) string {
	if ok {
		return "Yes"
	}
	return "No"
}

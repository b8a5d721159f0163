package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

const NotAvailable = "N/A"

// Header bases for the four chart cards.
const (
	DamageMapHeader = "Total damage (in US$) inflicted by "
	CountMapHeader  = "Total number of "
	TypeBarHeader   = "Trends of "
	DeathLineHeader = "Number of deaths by time from "
)

const multipleMonths = "multiple months"

// DescribeSelection appends a description of the selected types, years and
// months to base, e.g. "Trends of Flood and Storm, 2005 to 2010 in March".
func DescribeSelection(base string, types []string, years *models.YearRange, months []int) string {
	var b strings.Builder
	b.WriteString(base)

	switch len(types) {
	case 1:
		b.WriteString(types[0])
	case 2:
		b.WriteString(types[0])
		b.WriteString(" and ")
		b.WriteString(types[1])
	default:
		b.WriteString("disasters")
	}

	if years != nil {
		if years.Single() {
			fmt.Fprintf(&b, " in %d", years.From)
		} else {
			fmt.Fprintf(&b, ", %d to %d", years.From, years.To)
		}
	}

	valid := months[:0:0]
	for _, m := range months {
		if m >= 1 && m <= 12 {
			valid = append(valid, m)
		}
	}
	switch len(valid) {
	case 0:
	case 1:
		b.WriteString(" in ")
		b.WriteString(time.Month(valid[0]).String())
	default:
		b.WriteString(" in ")
		b.WriteString(multipleMonths)
	}

	return b.String()
}

// Abbreviate shortens v with a K, M or B suffix and one decimal. Values below
// 1,000 are printed as integers.
func Abbreviate(v float64) string {
	switch {
	case v < 1_000:
		return fmt.Sprintf("%.0f", v)
	case v < 1_000_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	case v < 1_000_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	default:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	}
}

// AbbreviateNullable is Abbreviate with NotAvailable for nil.
func AbbreviateNullable(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return Abbreviate(*v)
}

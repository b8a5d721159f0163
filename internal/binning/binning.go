// Package binning classifies per-country values into ordered, color-coded
// range labels for choropleth maps.
package binning

import (
	"cmp"
	"slices"
)

type LabelColor struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Entry is one row of the classified series. Placeholder rows carry no
// country and a zero value; they exist so every label reaches the legend.
type Entry struct {
	Country     string  `json:"country,omitempty"`
	Value       float64 `json:"value"`
	Label       string  `json:"label"`
	Placeholder bool    `json:"placeholder,omitempty"`
}

type Classification struct {
	Table       string            `json:"table"`
	Median      float64           `json:"median"`
	Labels      []string          `json:"labels"`
	Colors      []LabelColor      `json:"colors"`
	Assignments map[string]string `json:"assignments"`
	Entries     []Entry           `json:"entries"`
}

// Classify assigns each country to a bin of the table chosen by the median of
// the values. Labels and colors follow table order; entries are sorted by
// label position, then country, with placeholders ahead of real rows.
func Classify(d Domain, valuesByCountry map[string]float64) Classification {
	table := EmptyTable
	var med float64
	if len(valuesByCountry) > 0 {
		values := make([]float64, 0, len(valuesByCountry))
		for _, v := range valuesByCountry {
			values = append(values, v)
		}
		med = Median(values)
		table = d.Select(med)
	}
	return classifyWith(table, med, valuesByCountry)
}

func classifyWith(table Table, median float64, valuesByCountry map[string]float64) Classification {
	c := Classification{
		Table:       table.Name,
		Median:      median,
		Labels:      slices.Clone(table.Labels),
		Colors:      make([]LabelColor, len(table.Labels)),
		Assignments: make(map[string]string, len(valuesByCountry)),
		Entries:     make([]Entry, 0, len(valuesByCountry)+len(table.Labels)),
	}
	for i, label := range table.Labels {
		c.Colors[i] = LabelColor{Label: label, Color: MapPalette[i%len(MapPalette)]}
	}

	members := make([]int, len(table.Labels))
	for country, v := range valuesByCountry {
		idx := table.Index(v)
		members[idx]++
		c.Assignments[country] = table.Labels[idx]
		c.Entries = append(c.Entries, Entry{Country: country, Value: v, Label: table.Labels[idx]})
	}
	for i, n := range members {
		if n == 0 {
			c.Entries = append(c.Entries, Entry{Label: table.Labels[i], Placeholder: true})
		}
	}

	position := make(map[string]int, len(table.Labels))
	for i, label := range table.Labels {
		position[label] = i
	}
	slices.SortFunc(c.Entries, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(position[a.Label], position[b.Label]),
			cmp.Compare(a.Country, b.Country),
		)
	})
	return c
}

// Median of values; the mean of the two middle values for an even count.
// Returns 0 for an empty slice. values is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// ColorOf returns the color assigned to label, or "" if the label is unknown.
func (c Classification) ColorOf(label string) string {
	for _, lc := range c.Colors {
		if lc.Label == label {
			return lc.Color
		}
	}
	return ""
}

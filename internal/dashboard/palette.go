package dashboard

import (
	"slices"

	"github.com/mr1hm/go-disaster-dashboard/internal/aggregate"
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

// typePalette colors disaster types by their position in the enumeration.
var typePalette = []string{
	"#4C230A", "#555B6E", "#C44802", "#568EA3", "#84B59F", "#BBE5ED", "#0D160B", "orange",
	"#9DCBBA", "#5E8C61", "#132A13", "#00BD9D", "#285943", "#247BA0", "#38726C", "#1446A0", "#5C2751",
	"#586A6A", "#092327", "#64113F", "#26532B", "#531CB3", "#002A32", "#749C75", "#473144", "#514B23",
	"#5C415D", "#1B998B", "#7C7287", "#DC136C", "#637081", "#628B48", "#B388EB", "#EC4E20", "#114B5F",
}

// TypeColors maps every known disaster type to a fixed color, so a type keeps
// its color however the selection changes. Types outside the enumeration in
// extra take the colors after the known ones, in sorted order.
func TypeColors(extra ...models.DisasterType) map[models.DisasterType]string {
	types := models.AllDisasterTypes()
	var unknown []models.DisasterType
	for _, t := range extra {
		if !t.Known() && !slices.Contains(unknown, t) {
			unknown = append(unknown, t)
		}
	}
	slices.Sort(unknown)
	types = append(types, unknown...)

	out := make(map[models.DisasterType]string, len(types))
	for i, t := range types {
		out[t] = typePalette[i%len(typePalette)]
	}
	return out
}

// rowTypes lists the types appearing in rows.
func rowTypes(rows []aggregate.TypeYearCount) []models.DisasterType {
	types := make([]models.DisasterType, 0, len(rows))
	for _, r := range rows {
		types = append(types, r.Type)
	}
	return types
}

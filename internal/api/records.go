package api

import (
	"time"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 500
)

type RecordPage struct {
	Total   int         `json:"total"`
	Offset  int         `json:"offset"`
	Limit   int         `json:"limit"`
	Records []RecordRow `json:"records"`
}

// RecordRow is one table row with the dataset's column names. Missing values
// are null.
type RecordRow map[string]any

func toRecordPage(records []models.Record, offset, limit int) RecordPage {
	total := len(records)
	start := min(offset, total)
	end := min(start+limit, total)

	rows := make([]RecordRow, 0, end-start)
	for _, r := range records[start:end] {
		row := RecordRow{
			"id":             r.ID,
			"country":        r.Country,
			"region":         r.Region,
			"subregion":      r.Subregion,
			"type":           r.Type.String(),
			"year":           r.Year,
			"month":          r.Month,
			"total_deaths":   r.TotalDeaths,
			"total_affected": r.TotalAffected,
			"total_damage":   r.TotalDamage,
			"last_update":    nil,
		}
		if r.LastUpdate != nil {
			row["last_update"] = r.LastUpdate.Format(time.DateOnly)
		}
		rows = append(rows, row)
	}

	return RecordPage{
		Total:   total,
		Offset:  start,
		Limit:   limit,
		Records: rows,
	}
}

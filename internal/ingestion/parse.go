package ingestion

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

const (
	colID            = "id"
	colCountry       = "country"
	colRegion        = "region"
	colSubregion     = "subregion"
	colType          = "type"
	colYear          = "year"
	colMonth         = "month"
	colTotalDeaths   = "total_deaths"
	colTotalAffected = "total_affected"
	colTotalDamage   = "total_damage"
	colLastUpdate    = "last_update"
)

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
}

// groupedNumber matches numbers written with comma thousands separators.
var groupedNumber = regexp.MustCompile(`^[0-9]{1,3}(,[0-9]{3})+(\.[0-9]+)?$`)

// header maps lower-cased column names to their index.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseRows converts raw rows (header first) into records. Malformed values
// become nulls; rows whose year cannot be read are skipped and counted.
func ParseRows(rows [][]string) ([]*models.Record, int, error) {
	if len(rows) == 0 {
		return nil, 0, nil
	}

	h := newHeader(rows[0])
	if _, ok := h[colYear]; !ok {
		return nil, 0, fmt.Errorf("missing required column %q", colYear)
	}
	if _, ok := h[colCountry]; !ok {
		return nil, 0, fmt.Errorf("missing required column %q", colCountry)
	}

	records := make([]*models.Record, 0, len(rows)-1)
	skipped := 0
	for n, row := range rows[1:] {
		r, ok := parseRow(h, row, n+1)
		if !ok {
			skipped++
			continue
		}
		records = append(records, r)
	}
	return records, skipped, nil
}

func parseRow(h header, row []string, n int) (*models.Record, bool) {
	year, ok := parseInt(h.get(row, colYear))
	if !ok {
		return nil, false
	}

	id := h.get(row, colID)
	if id == "" {
		id = "row-" + strconv.Itoa(n)
	}

	typ, _ := models.ParseDisasterType(h.get(row, colType))

	r := &models.Record{
		ID:        id,
		Country:   h.get(row, colCountry),
		Region:    h.get(row, colRegion),
		Subregion: h.get(row, colSubregion),
		Type:      typ,
		Year:      int(year),
	}
	if m, ok := parseInt(h.get(row, colMonth)); ok && m >= 1 && m <= 12 {
		r.Month = models.Int(int(m))
	}
	if v, ok := parseInt(h.get(row, colTotalDeaths)); ok {
		r.TotalDeaths = models.Int64(v)
	}
	if v, ok := parseInt(h.get(row, colTotalAffected)); ok {
		r.TotalAffected = models.Int64(v)
	}
	if v, ok := parseFloat(h.get(row, colTotalDamage)); ok {
		r.TotalDamage = models.Float64(v)
	}
	if t, ok := parseDate(h.get(row, colLastUpdate)); ok {
		r.LastUpdate = models.Time(t)
	}
	return r, true
}

// parseFloat reads a non-negative statistic. Commas are accepted only as
// thousands separators, so "1,500" is 1500 and "1,5" is rejected.
func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		if !groupedNumber.MatchString(s) {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// parseInt accepts integral floats such as "12.0", which spreadsheets
// commonly produce for count columns. Values that do not fit an int64 are
// rejected.
func parseInt(s string) (int64, bool) {
	v, ok := parseFloat(s)
	if !ok || v != math.Trunc(v) || v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Unformatted workbook date cells come through as serial numbers.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

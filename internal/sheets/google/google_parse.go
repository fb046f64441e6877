package google

import (
	"fmt"
	"strconv"
	"strings"

	"foodtracker/internal/core"
	ports "foodtracker/internal/sheets"
)

// summaryValues converts rows into the values matrix written to the sheet,
// header first.
func summaryValues(rows []core.DayRow) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+1)
	header := make([]interface{}, len(ports.Header))
	for i, h := range ports.Header {
		header[i] = h
	}
	values = append(values, header)
	for _, r := range rows {
		values = append(values, []interface{}{
			r.Date.String(), r.Breakfast, r.Lunch, r.Snacks, r.Dinner, r.Beverage, r.ProteinIntake,
		})
	}
	return values
}

// parseSummary converts a values matrix (as returned by Sheets API, header
// included) back into rows. Columns are located by header name.
func parseSummary(values [][]interface{}) ([]core.DayRow, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := toStrings(values[0])
	cols := make([]int, len(ports.Header))
	var missing []string
	for i, name := range ports.Header {
		cols[i] = indexOf(headers, name)
		if cols[i] == -1 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected summary header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	var out []core.DayRow
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if strings.TrimSpace(safeGet(row, cols[0])) == "" {
			continue
		}
		date, err := core.ParseDate(safeGet(row, cols[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		protein, err := parseProtein(safeGet(row, cols[6]))
		if err != nil {
			return nil, fmt.Errorf("row %d protein: %w", i+1, err)
		}
		out = append(out, core.DayRow{
			Date:          date,
			Breakfast:     safeGet(row, cols[1]),
			Lunch:         safeGet(row, cols[2]),
			Snacks:        safeGet(row, cols[3]),
			Dinner:        safeGet(row, cols[4]),
			Beverage:      safeGet(row, cols[5]),
			ProteinIntake: protein,
		})
	}
	return out, nil
}

// parseProtein accepts integers and the float rendering Sheets may return.
func parseProtein(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	return int(f + 0.5), nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

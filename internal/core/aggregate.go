package core

import (
	"slices"
	"strings"
	"time"
)

const joinSeparator = ", "

// DailySummary builds one row per distinct date, newest date first.
//
// Foods are joined per category and beverages across the whole day, both in
// the order the entries appear in the input. Empty beverages are skipped.
func DailySummary(entries []FoodEntry) []DayRow {
	if len(entries) == 0 {
		return nil
	}

	byDate := make(map[string]*DayRow)
	var keys []string
	for _, e := range entries {
		key := e.Date.String()
		row, ok := byDate[key]
		if !ok {
			row = &DayRow{Date: e.Date}
			byDate[key] = row
			keys = append(keys, key)
		}

		switch e.Category {
		case Breakfast:
			row.Breakfast = appendJoined(row.Breakfast, e.Food)
		case Lunch:
			row.Lunch = appendJoined(row.Lunch, e.Food)
		case Snacks:
			row.Snacks = appendJoined(row.Snacks, e.Food)
		case Dinner:
			row.Dinner = appendJoined(row.Dinner, e.Food)
		}

		if e.Beverage != "" {
			row.Beverage = appendJoined(row.Beverage, e.Beverage)
		}
		row.ProteinIntake += e.Protein
	}

	// ISO dates sort lexicographically.
	slices.Sort(keys)
	slices.Reverse(keys)

	rows := make([]DayRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, *byDate[k])
	}
	return rows
}

func appendJoined(existing, value string) string {
	if existing == "" {
		return value
	}
	return existing + joinSeparator + value
}

// BuildProteinSeries groups protein by day (ascending), by Monday-to-Sunday
// week (ascending, empty weeks between the first and last included) and by
// category (ordered by name). It returns a zero series for no entries.
func BuildProteinSeries(entries []FoodEntry) ProteinSeries {
	if len(entries) == 0 {
		return ProteinSeries{}
	}
	return ProteinSeries{
		Daily:      dailyProtein(entries),
		Weekly:     weeklyProtein(entries),
		ByCategory: categoryProtein(entries),
	}
}

func dailyProtein(entries []FoodEntry) []DailyProtein {
	sums := make(map[string]int)
	dates := make(map[string]Date)
	for _, e := range entries {
		key := e.Date.String()
		sums[key] += e.Protein
		dates[key] = e.Date
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]DailyProtein, 0, len(keys))
	for _, k := range keys {
		out = append(out, DailyProtein{Date: dates[k], Protein: sums[k]})
	}
	return out
}

func weeklyProtein(entries []FoodEntry) []WeeklyProtein {
	sums := make(map[string]int)
	first, last := WeekStart(entries[0].Date), WeekStart(entries[0].Date)
	for _, e := range entries {
		start := WeekStart(e.Date)
		sums[start.String()] += e.Protein
		if start.Before(first.Time) {
			first = start
		}
		if start.After(last.Time) {
			last = start
		}
	}

	var out []WeeklyProtein
	for start := first; !start.After(last.Time); start = start.AddDays(7) {
		end := start.AddDays(6)
		out = append(out, WeeklyProtein{
			Start:   start,
			End:     end,
			Label:   WeekLabel(end),
			Protein: sums[start.String()],
		})
	}
	return out
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d Date) Date {
	sinceMonday := (int(d.Weekday()) + 6) % 7
	return DateOf(d.Time).AddDays(-sinceMonday)
}

// WeekLabel formats a week's reference (Sunday) date, e.g. "Week of Jan 07".
func WeekLabel(end Date) string {
	return "Week of " + end.Format("Jan 02")
}

func categoryProtein(entries []FoodEntry) []CategoryProtein {
	sums := make(map[Category]int)
	for _, e := range entries {
		sums[e.Category] += e.Protein
	}

	cats := make([]Category, 0, len(sums))
	for c := range sums {
		cats = append(cats, c)
	}
	slices.SortFunc(cats, func(a, b Category) int {
		return strings.Compare(string(a), string(b))
	})

	out := make([]CategoryProtein, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryProtein{Category: c, Protein: sums[c]})
	}
	return out
}

// ComputeQuickStats returns totals over all entries. The daily average is
// zero when there are no tracked days.
func ComputeQuickStats(entries []FoodEntry) QuickStats {
	days := make(map[string]struct{})
	stats := QuickStats{TotalEntries: len(entries)}
	for _, e := range entries {
		days[e.Date.String()] = struct{}{}
		stats.TotalProtein += e.Protein
	}
	stats.DaysTracked = len(days)
	if stats.DaysTracked > 0 {
		stats.AvgDailyProtein = float64(stats.TotalProtein) / float64(stats.DaysTracked)
	}
	return stats
}

// MostCommonCategory returns the most frequent category. Ties go to the
// category encountered first.
func MostCommonCategory(entries []FoodEntry) (Category, bool) {
	if len(entries) == 0 {
		return "", false
	}

	counts := make(map[Category]int)
	var order []Category
	for _, e := range entries {
		if _, ok := counts[e.Category]; !ok {
			order = append(order, e.Category)
		}
		counts[e.Category]++
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, true
}

// HighestProteinEntry returns the entry with the most protein. Ties go to
// the first occurrence.
func HighestProteinEntry(entries []FoodEntry) (FoodEntry, bool) {
	if len(entries) == 0 {
		return FoodEntry{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Protein > best.Protein {
			best = e
		}
	}
	return best, true
}

// Recent returns at most n entries from the head of an already newest-first slice.
func Recent(entries []FoodEntry, n int) []FoodEntry {
	if n < 0 {
		n = 0
	}
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// CountOn counts entries dated on day.
func CountOn(entries []FoodEntry, day Date) int {
	n := 0
	for _, e := range entries {
		if e.Date.String() == day.String() {
			n++
		}
	}
	return n
}

// CountSince counts entries dated on or after day.
func CountSince(entries []FoodEntry, day Date) int {
	n := 0
	for _, e := range entries {
		if e.Date.String() >= day.String() {
			n++
		}
	}
	return n
}

// ComputeGoalProgress compares the most recent day of an ascending daily
// series with goal grams. It returns false when the series is empty.
func ComputeGoalProgress(daily []DailyProtein, goal int) (GoalProgress, bool) {
	if len(daily) == 0 {
		return GoalProgress{}, false
	}
	latest := daily[len(daily)-1]
	p := GoalProgress{
		Date:    latest.Date,
		Protein: latest.Protein,
		Goal:    goal,
		Delta:   latest.Protein - goal,
	}
	if goal > 0 {
		p.Percent = float64(latest.Protein) / float64(goal) * 100
	}
	return p, true
}

// Today returns the current calendar date in the local time zone.
func Today() Date {
	return DateOf(time.Now())
}

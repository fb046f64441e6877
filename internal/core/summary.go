package core

// DayRow is the aggregated view of one calendar date across all categories.
type DayRow struct {
	Date          Date
	Breakfast     string
	Lunch         string
	Snacks        string
	Dinner        string
	Beverage      string
	ProteinIntake int
}

// Meal returns the joined foods for a category.
func (r DayRow) Meal(c Category) string {
	switch c {
	case Breakfast:
		return r.Breakfast
	case Lunch:
		return r.Lunch
	case Snacks:
		return r.Snacks
	case Dinner:
		return r.Dinner
	}
	return ""
}

// DailyProtein is the protein total of one date.
type DailyProtein struct {
	Date    Date
	Protein int
}

// WeeklyProtein is the protein total of one Monday-to-Sunday week.
type WeeklyProtein struct {
	Start   Date // Monday
	End     Date // Sunday, the week's reference date
	Label   string
	Protein int
}

// CategoryProtein is the protein total of one meal category.
type CategoryProtein struct {
	Category Category
	Protein  int
}

// ProteinSeries groups protein totals by day, week and category.
type ProteinSeries struct {
	Daily      []DailyProtein
	Weekly     []WeeklyProtein
	ByCategory []CategoryProtein
}

// IsEmpty reports whether the series was built from no entries.
func (s ProteinSeries) IsEmpty() bool {
	return len(s.Daily) == 0 && len(s.Weekly) == 0 && len(s.ByCategory) == 0
}

// QuickStats is the compact overview shown on the dashboard and sidebar.
type QuickStats struct {
	TotalEntries    int
	DaysTracked     int
	TotalProtein    int
	AvgDailyProtein float64
}

// GoalProgress compares the latest tracked day against a daily protein goal.
type GoalProgress struct {
	Date    Date
	Protein int
	Goal    int
	Percent float64
	Delta   int
}

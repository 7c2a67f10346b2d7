package progress

import (
	"sort"
	"strings"

	"github.com/yigit/gradplanner/internal/app/models"
)

// RecordFilter narrows a record list. Zero values match everything.
type RecordFilter struct {
	Status   models.Status
	Category models.Category
	Search   string
}

// Filter returns the records matching f, preserving order
func Filter(records []models.CourseRecord, f RecordFilter) []models.CourseRecord {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []models.CourseRecord{}
	for _, r := range records {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Code), search) &&
			!strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// GroupByPeriod orders records by year and term and groups them.
// Records of the same term keep their relative order.
func GroupByPeriod(records []models.CourseRecord) []models.YearGroup {
	sorted := make([]models.CourseRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Term < sorted[j].Term
	})

	groups := []models.YearGroup{}
	for _, r := range sorted {
		if len(groups) == 0 || groups[len(groups)-1].Year != r.Year {
			groups = append(groups, models.YearGroup{Year: r.Year})
		}
		year := &groups[len(groups)-1]
		if len(year.Terms) == 0 || year.Terms[len(year.Terms)-1].Term != r.Term {
			year.Terms = append(year.Terms, models.TermGroup{Term: r.Term})
		}
		term := &year.Terms[len(year.Terms)-1]
		term.Records = append(term.Records, r)
		term.Credits += r.Credits
	}
	return groups
}

// Package query filters and orders a user's goals for list views.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/templui/goalpace/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Sort string

const (
	SortNameAsc      Sort = "name_asc"
	SortProgressDesc Sort = "progress_desc"
	SortDeadlineAsc  Sort = "deadline_asc"
	SortDeadlineDesc Sort = "deadline_desc"

	DefaultSort = SortDeadlineAsc
)

// StatusFilter selects goals by classification. StatusOpen ("active") keeps
// every goal that is neither completed nor overdue.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusOpen      StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
	StatusOverdue   StatusFilter = "overdue"
)

// Filter is a list view configuration. The zero value keeps every goal in
// deadline order.
type Filter struct {
	Text   string
	Colors []string
	Hex    string
	Status StatusFilter
	Sort   Sort
	Locale language.Tag
}

// Apply returns the goals passing every filter, stably sorted. The input
// slice is not modified.
func Apply(goals []*model.Goal, f Filter, now time.Time) []*model.Goal {
	text := cases.Fold().String(strings.TrimSpace(f.Text))
	colors := colorSet(f.Colors)
	hex, hexOK := model.NormalizeHex(f.Hex)

	out := make([]*model.Goal, 0, len(goals))
	for _, g := range goals {
		if text != "" && !strings.Contains(cases.Fold().String(g.Name), text) {
			continue
		}
		if len(colors) > 0 {
			if _, ok := colors[strings.ToUpper(g.Color)]; !ok {
				continue
			}
		}
		if hexOK && strings.ToUpper(g.Color) != hex {
			continue
		}
		if !matchStatus(g, f.Status, now) {
			continue
		}
		out = append(out, g)
	}

	sortGoals(out, f.Sort, f.Locale)
	return out
}

func colorSet(colors []string) map[string]struct{} {
	set := make(map[string]struct{}, len(colors))
	for _, c := range colors {
		if n, ok := model.NormalizeHex(c); ok {
			set[n] = struct{}{}
		}
	}
	return set
}

func matchStatus(g *model.Goal, filter StatusFilter, now time.Time) bool {
	status := g.Status(now)
	switch filter {
	case StatusCompleted:
		return status == model.StatusCompleted
	case StatusOverdue:
		return status == model.StatusOverdue
	case StatusOpen:
		return status.IsOpen()
	default:
		return true
	}
}

func sortGoals(goals []*model.Goal, by Sort, locale language.Tag) {
	switch by {
	case SortNameAsc:
		c := collate.New(locale)
		slices.SortStableFunc(goals, func(a, b *model.Goal) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortProgressDesc:
		slices.SortStableFunc(goals, func(a, b *model.Goal) int {
			return cmp.Compare(b.Percentage(), a.Percentage())
		})
	case SortDeadlineDesc:
		slices.SortStableFunc(goals, func(a, b *model.Goal) int {
			return compareDeadline(b, a)
		})
	default:
		slices.SortStableFunc(goals, compareDeadline)
	}
}

// compareDeadline orders by deadline ascending with missing deadlines last.
func compareDeadline(a, b *model.Goal) int {
	da, db := deadlineKey(a), deadlineKey(b)
	switch {
	case da == "" && db == "":
		return 0
	case da == "":
		return 1
	case db == "":
		return -1
	}
	return strings.Compare(da, db)
}

func deadlineKey(g *model.Goal) string {
	if g.Deadline == nil {
		return ""
	}
	return *g.Deadline
}

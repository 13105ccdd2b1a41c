package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalpace/internal/model"
	"github.com/templui/goalpace/internal/validation"
	"golang.org/x/text/language"
)

var now = time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)

func deadline(s string) *string {
	return &s
}

func names(goals []*model.Goal) []string {
	out := make([]string, len(goals))
	for i, g := range goals {
		out[i] = g.Name
	}
	return out
}

func fixtures() []*model.Goal {
	return []*model.Goal{
		{ID: "1", Name: "Read books", Color: "#06B6D4", Current: 3, Target: 12, Deadline: deadline("2025-06-01")},
		{ID: "2", Name: "Run marathon", Color: "#3B82F6", Current: 42, Target: 42},
		{ID: "3", Name: "Save money", Color: "#06B6D4", Current: 100, Target: 1000, Deadline: deadline("2025-01-01")},
		{ID: "4", Name: "learn Go", Color: "#10B981", Current: 5, Target: 10, Deadline: deadline("2025-01-08")},
		{ID: "5", Name: "Bike", Color: "#EC4899", Current: 0, Target: 10},
	}
}

func TestApplyDeadlineOrdering(t *testing.T) {
	goals := []*model.Goal{
		{Name: "none", Target: 1},
		{Name: "feb", Target: 1, Deadline: deadline("2025-02-01")},
		{Name: "jan", Target: 1, Deadline: deadline("2025-01-01")},
	}

	asc := Apply(goals, Filter{Sort: SortDeadlineAsc}, now)
	assert.Equal(t, []string{"jan", "feb", "none"}, names(asc))

	desc := Apply(goals, Filter{Sort: SortDeadlineDesc}, now)
	assert.Equal(t, []string{"none", "feb", "jan"}, names(desc))

	assert.Equal(t, []string{"none", "feb", "jan"}, names(goals), "input must not be reordered")
}

func TestApplyTextFilter(t *testing.T) {
	got := Apply(fixtures(), Filter{Text: "  LEARN "}, now)
	assert.Equal(t, []string{"learn Go"}, names(got))

	all := Apply(fixtures(), Filter{Text: "   "}, now)
	assert.Len(t, all, 5, "whitespace disables the text filter")
}

func TestApplyTextFilterUnicode(t *testing.T) {
	goals := []*model.Goal{{Name: "Прочитать книги", Target: 1}, {Name: "Бег", Target: 1}}
	got := Apply(goals, Filter{Text: "КНИГИ"}, now)
	assert.Equal(t, []string{"Прочитать книги"}, names(got))
}

func TestApplyColorFilters(t *testing.T) {
	got := Apply(fixtures(), Filter{Colors: []string{"#06b6d4", "#10B981", "junk"}, Sort: SortNameAsc}, now)
	assert.Equal(t, []string{"learn Go", "Read books", "Save money"}, names(got))

	got = Apply(fixtures(), Filter{Hex: "#3b82f6"}, now)
	assert.Equal(t, []string{"Run marathon"}, names(got))

	got = Apply(fixtures(), Filter{Hex: "#3b82"}, now)
	assert.Len(t, got, 5, "malformed hex is ignored")

	got = Apply(fixtures(), Filter{Colors: []string{"#06B6D4"}, Hex: "#EC4899"}, now)
	assert.Empty(t, got, "filters combine with AND")
}

func TestApplyStatusFilter(t *testing.T) {
	tests := []struct {
		status StatusFilter
		want   []string
	}{
		{StatusCompleted, []string{"Run marathon"}},
		{StatusOverdue, []string{"Save money"}},
		{StatusOpen, []string{"learn Go", "Read books", "Bike"}},
		{StatusAll, []string{"Save money", "learn Go", "Read books", "Run marathon", "Bike"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, names(Apply(fixtures(), Filter{Status: tt.status}, now)))
		})
	}
}

func TestApplyProgressSortIsStable(t *testing.T) {
	goals := []*model.Goal{
		{Name: "a", Current: 5, Target: 10},
		{Name: "b", Current: 10, Target: 10},
		{Name: "c", Current: 1, Target: 2},
		{Name: "d", Current: 20, Target: 10},
	}

	got := Apply(goals, Filter{Sort: SortProgressDesc}, now)
	assert.Equal(t, []string{"b", "d", "a", "c"}, names(got))
}

func TestApplyNameSortIsLocaleAware(t *testing.T) {
	goals := []*model.Goal{{Name: "zebra"}, {Name: "Äpfel"}, {Name: "apple"}, {Name: "Banana"}}

	got := Apply(goals, Filter{Sort: SortNameAsc, Locale: language.English}, now)
	assert.Equal(t, []string{"Äpfel", "apple", "Banana", "zebra"}, names(got))
}

func TestParseFilter(t *testing.T) {
	values := url.Values{
		"q":      {"run"},
		"colors": {"#06B6D4, #3B82F6"},
		"color":  {"#10B981"},
		"hex":    {"#ec4899"},
		"status": {"active"},
		"sort":   {"name_asc"},
	}

	f, err := ParseFilter(values, language.Russian)
	require.NoError(t, err)
	assert.Equal(t, "run", f.Text)
	assert.Equal(t, []string{"#06B6D4", "#3B82F6", "#10B981"}, f.Colors)
	assert.Equal(t, "#ec4899", f.Hex)
	assert.Equal(t, StatusOpen, f.Status)
	assert.Equal(t, SortNameAsc, f.Sort)
	assert.Equal(t, language.Russian, f.Locale)
}

func TestParseFilterDefaults(t *testing.T) {
	f, err := ParseFilter(url.Values{}, language.English)
	require.NoError(t, err)
	assert.Equal(t, StatusAll, f.Status)
	assert.Equal(t, DefaultSort, f.Sort)
}

func TestParseFilterRejectsUnknownOptions(t *testing.T) {
	var verr *validation.Error

	_, err := ParseFilter(url.Values{"sort": {"random"}}, language.English)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sort", verr.Field)

	_, err = ParseFilter(url.Values{"status": {"due-soon"}}, language.English)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

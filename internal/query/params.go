package query

import (
	"net/url"
	"strings"

	"github.com/templui/goalpace/internal/validation"
	"golang.org/x/text/language"
)

// ParseFilter reads a Filter from list request parameters:
// q, colors (comma separated) or repeated color, hex, status, sort.
func ParseFilter(values url.Values, locale language.Tag) (Filter, error) {
	f := Filter{
		Text:   values.Get("q"),
		Hex:    values.Get("hex"),
		Status: StatusAll,
		Sort:   DefaultSort,
		Locale: locale,
	}

	for _, raw := range values["colors"] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				f.Colors = append(f.Colors, c)
			}
		}
	}
	f.Colors = append(f.Colors, values["color"]...)

	if s := values.Get("status"); s != "" {
		switch StatusFilter(s) {
		case StatusAll, StatusOpen, StatusCompleted, StatusOverdue:
			f.Status = StatusFilter(s)
		default:
			return Filter{}, validation.NewError("status", "must be one of all, active, completed, overdue")
		}
	}

	if s := values.Get("sort"); s != "" {
		switch Sort(s) {
		case SortNameAsc, SortProgressDesc, SortDeadlineAsc, SortDeadlineDesc:
			f.Sort = Sort(s)
		default:
			return Filter{}, validation.NewError("sort", "must be one of name_asc, progress_desc, deadline_asc, deadline_desc")
		}
	}

	return f, nil
}

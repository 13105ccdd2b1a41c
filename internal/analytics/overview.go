package analytics

import (
	"math"
	"time"

	"github.com/templui/goalpace/internal/model"
)

// Overview is the headline block of the goals list page.
type Overview struct {
	Total             int `json:"total"`
	Completed         int `json:"completed"`
	Overdue           int `json:"overdue"`
	AveragePercentage int `json:"average_percentage"`
}

func ComputeOverview(goals []*model.Goal, now time.Time) Overview {
	var o Overview
	var sum int
	for _, g := range goals {
		o.Total++
		sum += g.Percentage()
		switch g.Status(now) {
		case model.StatusCompleted:
			o.Completed++
		case model.StatusOverdue:
			o.Overdue++
		}
	}
	if o.Total > 0 {
		o.AveragePercentage = int(math.Round(float64(sum) / float64(o.Total)))
	}
	return o
}

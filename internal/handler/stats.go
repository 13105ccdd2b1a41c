package handler

import (
	"net/http"
	"strconv"

	"github.com/templui/goalpace/internal/ctxkeys"
	"github.com/templui/goalpace/internal/service"
	"github.com/templui/goalpace/internal/validation"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Stats serves GET /api/stats?period=N. A missing period uses the
// configured default; out-of-range values are clamped.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	period := 0
	if raw := r.URL.Query().Get("period"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			handleError(w, r, validation.NewError("period", "period must be a whole number of days"))
			return
		}
		period = n
		if period == 0 {
			period = 1
		}
	}

	res, err := h.statsService.UserStats(r.Context(), user.ID, period)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

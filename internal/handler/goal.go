package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/templui/goalpace/internal/ctxkeys"
	"github.com/templui/goalpace/internal/model"
	"github.com/templui/goalpace/internal/query"
	"github.com/templui/goalpace/internal/service"
)

type GoalHandler struct {
	goalService  *service.GoalService
	statsService *service.StatsService
	now          func() time.Time
}

func NewGoalHandler(goalService *service.GoalService, statsService *service.StatsService) *GoalHandler {
	return &GoalHandler{
		goalService:  goalService,
		statsService: statsService,
		now:          time.Now,
	}
}

// goalResponse adds the derived fields computed at response time.
type goalResponse struct {
	*model.Goal
	Percentage    int          `json:"percentage"`
	DaysRemaining *int         `json:"days_remaining"`
	Status        model.Status `json:"status"`
}

func newGoalResponse(g *model.Goal, now time.Time) goalResponse {
	resp := goalResponse{
		Goal:       g,
		Percentage: g.Percentage(),
		Status:     g.Status(now),
	}
	if days, ok := g.DaysRemaining(now); ok {
		resp.DaysRemaining = &days
	}
	return resp
}

type createGoalRequest struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Target   float64 `json:"target"`
	Baseline float64 `json:"baseline"`
	Deadline *string `json:"deadline"`
	Color    string  `json:"color"`
}

type updateGoalRequest struct {
	Name          *string  `json:"name"`
	Unit          *string  `json:"unit"`
	Target        *float64 `json:"target"`
	Color         *string  `json:"color"`
	Deadline      *string  `json:"deadline"`
	ClearDeadline bool     `json:"clear_deadline"`
}

type progressRequest struct {
	Delta float64 `json:"delta"`
	Note  string  `json:"note"`
}

type completeRequest struct {
	Note string `json:"note"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	filter, err := query.ParseFilter(r.URL.Query(), h.goalService.Locale())
	if err != nil {
		handleError(w, r, err)
		return
	}

	goals, err := h.goalService.List(user.ID, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	now := h.now()
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, newGoalResponse(g, now))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), user.ID, service.CreateGoalInput{
		Name:     req.Name,
		Unit:     req.Unit,
		Target:   req.Target,
		Baseline: req.Baseline,
		Deadline: req.Deadline,
		Color:    req.Color,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/goals/"+goal.ID)
	writeJSON(w, http.StatusCreated, newGoalResponse(goal, h.now()))
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGoalResponse(goal, h.now()))
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	goal, err := h.goalService.Update(r.Context(), user.ID, r.PathValue("id"), service.UpdateGoalInput{
		Name:          req.Name,
		Unit:          req.Unit,
		Target:        req.Target,
		Color:         req.Color,
		Deadline:      req.Deadline,
		ClearDeadline: req.ClearDeadline,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGoalResponse(goal, h.now()))
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req progressRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	goal, err := h.goalService.RecordProgress(r.Context(), user.ID, r.PathValue("id"), req.Delta, req.Note)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGoalResponse(goal, h.now()))
}

// Complete accepts an optional {"note": "..."} body.
func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req completeRequest
	err := decodeJSON(w, r, &req)
	if err != nil && !errors.Is(err, errEmptyBody) {
		badRequest(w, err)
		return
	}

	goal, err := h.goalService.Complete(r.Context(), user.ID, r.PathValue("id"), req.Note)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGoalResponse(goal, h.now()))
}

func (h *GoalHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	summary, err := h.goalService.History(user.ID, r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *GoalHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	overview, err := h.statsService.Overview(user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

func (h *GoalHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	export, err := h.goalService.Export(user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("goals-export-%s.json", export.ExportedAt.UTC().Format("20060102"))
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	writeJSON(w, http.StatusOK, export)
}

func (h *GoalHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	res, err := h.goalService.Archive(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

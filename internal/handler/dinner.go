package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"whosfordinner/internal/model"
	"whosfordinner/internal/store"
	"whosfordinner/internal/toast"
	"whosfordinner/internal/week"
	ws "whosfordinner/internal/websocket"
)

// DinnerHandler serves the week view and the form intents posted from it.
type DinnerHandler struct {
	dinners    *store.DinnerStore
	meals      *store.MealStore
	attendance *store.AttendanceStore
	hub        *ws.Hub
	templates  *template.Template
	logger     *slog.Logger
}

func NewDinnerHandler(dinners *store.DinnerStore, meals *store.MealStore, attendance *store.AttendanceStore, hub *ws.Hub, templates *template.Template, logger *slog.Logger) *DinnerHandler {
	return &DinnerHandler{
		dinners:    dinners,
		meals:      meals,
		attendance: attendance,
		hub:        hub,
		templates:  templates,
		logger:     logger,
	}
}

// WeekPage renders seven days starting from the Monday of the requested
// week (?week=YYYY-MM-DD, any day within the week works). A malformed or
// missing parameter falls back to the current week rather than erroring.
func (h *DinnerHandler) WeekPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	start := week.Start(time.Now())
	if param := r.URL.Query().Get("week"); param != "" {
		if t, err := week.Parse(param); err == nil {
			start = week.Start(t)
		}
	}
	dates := week.Dates(start)

	for _, date := range dates {
		if _, err := h.dinners.Ensure(date); err != nil {
			h.logger.Error("ensure dinner", "date", date, "error", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
	}

	days, err := h.dinners.ListWithDetails(dates)
	if err != nil {
		h.logger.Error("list week", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	meals, err := h.meals.List()
	if err != nil {
		h.logger.Error("list meals", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Days":      days,
		"Meals":     meals,
		"Members":   model.Members(),
		"WeekStart": start.Format(week.DateFormat),
		"PrevWeek":  week.Prev(start).Format(week.DateFormat),
		"NextWeek":  week.Next(start).Format(week.DateFormat),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "week.html", data); err != nil {
		h.logger.Error("render week", "error", err)
	}
}

// Intent dispatches the week-view form posts. toggleAttendance answers
// JSON for the fetch call behind the member buttons; the rest are plain
// form submits that redirect back to the week.
func (h *DinnerHandler) Intent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form")
		return
	}

	switch intent := r.FormValue("intent"); intent {
	case "setMeal":
		h.setMeal(w, r)
	case "toggleAttendance":
		h.toggleAttendance(w, r)
	case "setNotes":
		h.setNotes(w, r)
	case "setExtraGuests":
		h.setExtraGuests(w, r)
	default:
		writeJSONError(w, http.StatusBadRequest, "unknown intent: "+intent)
	}
}

// date pulls and validates the date field common to every intent.
func (h *DinnerHandler) date(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.FormValue("date")
	if _, err := week.Parse(date); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid date")
		return "", false
	}
	return date, true
}

func (h *DinnerHandler) setMeal(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	var mealID *int64
	if raw := r.FormValue("mealId"); raw != "" && raw != "none" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid meal id")
			return
		}
		meal, err := h.meals.GetByID(id)
		if err != nil {
			h.serverError(w, "look up meal", err)
			return
		}
		if meal == nil {
			writeJSONError(w, http.StatusBadRequest, "meal not found")
			return
		}
		mealID = &id
	}

	if err := h.dinners.SetMeal(date, mealID); err != nil {
		h.serverError(w, "set meal", err)
		return
	}

	h.broadcast("dinner", "updated", date)
	weekRedirect(w, r)
}

func (h *DinnerHandler) toggleAttendance(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	member := model.Member(r.FormValue("member"))
	if !member.Valid() {
		writeJSONError(w, http.StatusBadRequest, "unknown member")
		return
	}
	attending := r.FormValue("attending") == "true"

	dinner, err := h.dinners.Ensure(date)
	if err != nil {
		h.serverError(w, "ensure dinner", err)
		return
	}
	if err := h.attendance.Set(dinner.ID, member, attending); err != nil {
		h.serverError(w, "set attendance", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(ws.NewMessage("attendance", "toggled", dinner.ID, date))
	}

	resp := map[string]any{
		"ok":        true,
		"member":    member,
		"attending": attending,
	}
	if msg, ok := toast.Pick(member, attending); ok {
		resp["message"] = msg
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DinnerHandler) setNotes(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	dinner, err := h.dinners.Ensure(date)
	if err != nil {
		h.serverError(w, "ensure dinner", err)
		return
	}
	if err := h.dinners.SetNotes(dinner.ID, r.FormValue("notes")); err != nil {
		h.serverError(w, "set notes", err)
		return
	}

	h.broadcast("dinner", "updated", date)
	weekRedirect(w, r)
}

func (h *DinnerHandler) setExtraGuests(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	n, err := strconv.Atoi(r.FormValue("extraGuests"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid guest count")
		return
	}

	dinner, err := h.dinners.Ensure(date)
	if err != nil {
		h.serverError(w, "ensure dinner", err)
		return
	}
	if err := h.dinners.SetExtraGuests(dinner.ID, n); err != nil {
		h.serverError(w, "set extra guests", err)
		return
	}

	h.broadcast("dinner", "updated", date)
	weekRedirect(w, r)
}

func (h *DinnerHandler) broadcast(entity, action, date string) {
	if h.hub != nil {
		h.hub.Broadcast(ws.NewMessage(entity, action, 0, date))
	}
}

func (h *DinnerHandler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	writeJSONError(w, http.StatusInternalServerError, "internal error")
}

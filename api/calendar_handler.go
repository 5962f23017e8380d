package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/utils"
	"github.com/raushankrgupta/stylesync/validation"
)

const dateLayout = "2006-01-02"

// CalendarHandler schedules an outfit (POST) or lists scheduled outfits
// in an optional inclusive ?from=&to= date range (GET).
func (h *Handler) CalendarHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Calendar API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodGet, http.MethodPost) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.listCalendar(w, r, &logMessageBuilder, uid)
		return
	}

	var event models.CalendarEvent
	if err := utils.DecodeJSON(r, &event); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	event.ID = ""
	event.UserID = uid
	if err := validation.Struct(event); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	for _, itemID := range event.ItemIDs {
		var item models.ClosetItem
		err := h.Store.Get(r.Context(), store.ClosetItems, itemID, &item)
		if err != nil && !store.IsNotFound(err) {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
			utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
			return
		}
		if err != nil || item.UserID != uid {
			utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Unknown closet item: %s", itemID), http.StatusBadRequest)
			return
		}
	}

	id, err := h.Store.Add(r.Context(), store.CalendarEvents, event)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save event: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save calendar event", http.StatusInternalServerError)
		return
	}
	if err := h.Store.Get(r.Context(), store.CalendarEvents, id, &event); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to reload event: %v", err))
	}
	utils.RespondJSON(w, http.StatusOK, event)
}

func (h *Handler) listCalendar(w http.ResponseWriter, r *http.Request, logMessageBuilder *strings.Builder, uid string) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			utils.RespondError(w, logMessageBuilder, "from and to must be dates in the format YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	var all []models.CalendarEvent
	q := store.Query{Where: map[string]any{"userId": uid}, OrderBy: "date"}
	if err := h.Store.List(r.Context(), store.CalendarEvents, q, &all); err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, logMessageBuilder, "Failed to load calendar", http.StatusInternalServerError)
		return
	}

	// YYYY-MM-DD compares correctly as a string.
	events := make([]models.CalendarEvent, 0, len(all))
	for _, e := range all {
		if (from == "" || e.Date >= from) && (to == "" || e.Date <= to) {
			events = append(events, e)
		}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"events": events})
}

// DeleteCalendarEventHandler removes one of the caller's scheduled outfits.
func (h *Handler) DeleteCalendarEventHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Calendar Event API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodDelete) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	id := r.PathValue("id")
	var event models.CalendarEvent
	err := h.Store.Get(r.Context(), store.CalendarEvents, id, &event)
	if err != nil && !store.IsNotFound(err) {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	if err != nil || event.UserID != uid {
		utils.RespondError(w, &logMessageBuilder, "Calendar event not found", http.StatusNotFound)
		return
	}

	if err := h.Store.Remove(r.Context(), store.CalendarEvents, id); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete event: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to delete calendar event", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

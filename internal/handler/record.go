package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/runningplanet/crew-service/internal/middleware"
	"github.com/runningplanet/crew-service/internal/service"
)

// RecordHandler обрабатывает эндпоинты записей о пробежках
type RecordHandler struct {
	recordService *service.RecordService
}

// NewRecordHandler создает новый RecordHandler
func NewRecordHandler(recordService *service.RecordService) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
	}
}

// Save обрабатывает POST /api/records
func (h *RecordHandler) Save(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	var req service.SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.RunTime < 0 || req.RunDistance < 0 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "run_time and run_distance must be non-negative")
		return
	}

	rec, err := h.recordService.Save(r.Context(), memberID, req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, rec)
}

// FindAll обрабатывает GET /api/records?year=...&month=...
func (h *RecordHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "year query parameter is required")
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "month query parameter must be between 1 and 12")
		return
	}

	records, err := h.recordService.FindAll(r.Context(), memberID, year, time.Month(month))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, records)
}

// Find обрабатывает GET /api/records/{recordId}
func (h *RecordHandler) Find(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	recordID, ok := parseIDParam(w, r, "recordId")
	if !ok {
		return
	}

	detail, err := h.recordService.Find(r.Context(), memberID, recordID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, detail)
}

// FindCurrent обрабатывает GET /api/records/current.
// Если пробежка не идет, возвращается 204 без тела.
func (h *RecordHandler) FindCurrent(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	current, err := h.recordService.FindCurrent(r.Context(), memberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if current == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, current)
}

// FindAllRunningStatus обрабатывает GET /api/crews/{crewId}/running-status
func (h *RecordHandler) FindAllRunningStatus(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}

	statuses, err := h.recordService.FindAllRunningStatus(r.Context(), crewID, memberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, statuses)
}

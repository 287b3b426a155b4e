package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/runningplanet/crew-service/internal/middleware"
	"github.com/runningplanet/crew-service/internal/service"
	"github.com/runningplanet/crew-service/internal/storage"
)

// Лимит размера multipart запроса с логотипом крю
const maxCrewFormSize = 10 << 20

// CrewHandler обрабатывает эндпоинты крю
type CrewHandler struct {
	crewService *service.CrewService
}

// NewCrewHandler создает новый CrewHandler
func NewCrewHandler(crewService *service.CrewService) *CrewHandler {
	return &CrewHandler{
		crewService: crewService,
	}
}

// CreateCrewResponse представляет ответ на создание крю
type CreateCrewResponse struct {
	CrewID int64 `json:"crew_id"`
}

// ApplyCrewRequest представляет тело заявки на вступление
type ApplyCrewRequest struct {
	Message string `json:"message"`
}

// ProceedApplicationRequest представляет решение лидера по заявке
type ProceedApplicationRequest struct {
	Approve bool `json:"approve"`
}

// CreateCrew обрабатывает POST /api/crews.
// Запрос multipart: часть "data" содержит JSON, часть "image" (опционально)
// содержит логотип крю.
func (h *CrewHandler) CreateCrew(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	var req service.CreateCrewRequest
	image, ok := parseCrewForm(w, r, &req)
	if !ok {
		return
	}

	if req.Name == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "crew_name is required")
		return
	}
	if req.Capacity <= 0 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "limit_member_cnt must be positive")
		return
	}

	crewID, err := h.crewService.CreateCrew(r.Context(), req, image, memberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, CreateCrewResponse{CrewID: crewID})
}

// UpdateCrew обрабатывает PUT /api/crews/{crewId}, формат тот же multipart
func (h *CrewHandler) UpdateCrew(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}

	var req service.UpdateCrewRequest
	image, ok := parseCrewForm(w, r, &req)
	if !ok {
		return
	}

	if err := h.crewService.UpdateCrew(r.Context(), req, image, crewID, memberID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "updated"})
}

// FindAllCrew обрабатывает GET /api/crews
func (h *CrewHandler) FindAllCrew(w http.ResponseWriter, r *http.Request) {
	crews, err := h.crewService.FindAllCrew(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, crews)
}

// FindCrew обрабатывает GET /api/crews/{crewId}
func (h *CrewHandler) FindCrew(w http.ResponseWriter, r *http.Request) {
	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}

	crew, err := h.crewService.FindCrew(r.Context(), crewID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, crew)
}

// ApplyCrew обрабатывает POST /api/crews/{crewId}/applications
func (h *CrewHandler) ApplyCrew(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}

	var req ApplyCrewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	result, err := h.crewService.ApplyCrew(r.Context(), req.Message, crewID, memberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, result)
}

// CancelApplication обрабатывает DELETE /api/crews/{crewId}/applications
func (h *CrewHandler) CancelApplication(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}

	result, err := h.crewService.CancelApplication(r.Context(), crewID, memberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, result)
}

// GetApplications обрабатывает GET /api/crews/{crewId}/applications
func (h *CrewHandler) GetApplications(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}

	apps, err := h.crewService.GetApplications(r.Context(), crewID, memberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, apps)
}

// ProceedApplication обрабатывает POST /api/crews/{crewId}/applications/{memberId}
func (h *CrewHandler) ProceedApplication(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetMemberIDFromContext(r.Context())

	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}
	applicantID, ok := parseIDParam(w, r, "memberId")
	if !ok {
		return
	}

	var req ProceedApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if err := h.crewService.ProceedApplication(r.Context(), crewID, applicantID, req.Approve, actorID); err != nil {
		HandleError(w, r, err)
		return
	}

	status := "rejected"
	if req.Approve {
		status = "approved"
	}
	RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": status})
}

// RemoveMember обрабатывает DELETE /api/crews/{crewId}/members/{memberId}
func (h *CrewHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetMemberIDFromContext(r.Context())

	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(w, r, "memberId")
	if !ok {
		return
	}

	if err := h.crewService.RemoveMember(r.Context(), crewID, targetID, actorID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "removed"})
}

// LeaveCrew обрабатывает DELETE /api/crews/{crewId}/members/me
func (h *CrewHandler) LeaveCrew(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}

	if err := h.crewService.LeaveCrew(r.Context(), crewID, memberID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "left"})
}

// parseCrewForm читает multipart форму крю: JSON из части "data" и
// опциональный файл из части "image". При ошибке ответ уже отправлен.
func parseCrewForm(w http.ResponseWriter, r *http.Request, dst interface{}) (*storage.File, bool) {
	if err := r.ParseMultipartForm(maxCrewFormSize); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid multipart form")
		return nil, false
	}

	data := r.FormValue("data")
	if data == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "data form field is required")
		return nil, false
	}

	if err := json.Unmarshal([]byte(data), dst); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid data form field")
		return nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid image form field")
		return nil, false
	}

	return &storage.File{
		Name:    filepath.Base(header.Filename),
		Content: file,
	}, true
}

// parseIDParam извлекает числовой path-параметр. При ошибке ответ уже отправлен.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

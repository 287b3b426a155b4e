package handler

import (
	"net/http"

	"github.com/runningplanet/crew-service/internal/middleware"
	"github.com/runningplanet/crew-service/internal/service"
)

// MissionHandler обрабатывает эндпоинты миссий крю
type MissionHandler struct {
	missionService *service.MissionService
}

// NewMissionHandler создает новый MissionHandler
func NewMissionHandler(missionService *service.MissionService) *MissionHandler {
	return &MissionHandler{
		missionService: missionService,
	}
}

// GetCrewMission обрабатывает GET /api/crews/{crewId}/missions
func (h *MissionHandler) GetCrewMission(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}

	missions, err := h.missionService.GetCrewMission(r.Context(), crewID, memberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, missions)
}

// SuccessMission обрабатывает POST /api/crews/{crewId}/missions/{missionId}/success
func (h *MissionHandler) SuccessMission(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	crewID, ok := parseIDParam(w, r, "crewId")
	if !ok {
		return
	}
	missionID, ok := parseIDParam(w, r, "missionId")
	if !ok {
		return
	}

	if err := h.missionService.SuccessMission(r.Context(), crewID, missionID, memberID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "completed"})
}

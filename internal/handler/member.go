package handler

import (
	"net/http"

	"github.com/runningplanet/crew-service/internal/middleware"
	"github.com/runningplanet/crew-service/internal/service"
)

// MemberHandler обрабатывает эндпоинты профиля участника
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler создает новый MemberHandler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// GetProfile обрабатывает GET /api/members/me
func (h *MemberHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetMemberIDFromContext(r.Context())

	profile, err := h.memberService.GetProfile(r.Context(), memberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, profile)
}

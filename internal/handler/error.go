package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/runningplanet/crew-service/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	code := string(domain.MapErrorToCode(err))

	switch {
	case errors.Is(err, domain.ErrAlreadyInCrew):
		RespondWithError(w, r, http.StatusConflict, code, "member already belongs to a crew")
	case errors.Is(err, domain.ErrApplicationExists):
		RespondWithError(w, r, http.StatusConflict, code, "application already exists for this crew")
	case errors.Is(err, domain.ErrCrewFull):
		RespondWithError(w, r, http.StatusConflict, code, "crew member limit exceeded")
	case errors.Is(err, domain.ErrCrewNotEmpty):
		RespondWithError(w, r, http.StatusConflict, code, "leader cannot leave a crew that still has members")
	case errors.Is(err, domain.ErrCannotRemoveLeader):
		RespondWithError(w, r, http.StatusConflict, code, "crew leader cannot be removed")
	case errors.Is(err, domain.ErrMissionNotDone):
		RespondWithError(w, r, http.StatusConflict, code, "mission progress has not reached 100 percent")
	case errors.Is(err, domain.ErrNotCrewMember):
		RespondWithError(w, r, http.StatusForbidden, code, "member does not belong to this crew")
	case errors.Is(err, domain.ErrNotLeader):
		RespondWithError(w, r, http.StatusForbidden, code, "operation is allowed for the crew leader only")
	case errors.Is(err, domain.ErrMemberNotFound), errors.Is(err, domain.ErrCrewNotFound),
		errors.Is(err, domain.ErrApplicationNotFound), errors.Is(err, domain.ErrMissionNotFound),
		errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrMembershipNotFound):
		RespondWithError(w, r, http.StatusNotFound, code, "resource not found")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		RespondWithError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

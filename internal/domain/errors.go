package domain

import "errors"

// Доменные ошибки сервиса беговых крю
var (
	// ErrMemberNotFound возвращается когда пользователь не найден
	ErrMemberNotFound = errors.New("member not found")

	// ErrCrewNotFound возвращается когда крю не найдено
	ErrCrewNotFound = errors.New("crew not found")

	// ErrApplicationNotFound возвращается когда заявка на вступление не найдена
	ErrApplicationNotFound = errors.New("crew application not found")

	// ErrMissionNotFound возвращается когда миссия не найдена
	ErrMissionNotFound = errors.New("crew mission not found")

	// ErrRecordNotFound возвращается когда запись о пробежке не найдена
	ErrRecordNotFound = errors.New("running record not found")

	// ErrMembershipNotFound возвращается когда строка членства отсутствует
	ErrMembershipNotFound = errors.New("crew membership not found")

	// ErrNotCrewMember возвращается когда пользователь не состоит в данном крю
	ErrNotCrewMember = errors.New("member does not belong to this crew")

	// ErrNotLeader возвращается когда операция доступна только лидеру крю
	ErrNotLeader = errors.New("member is not the crew leader")

	// ErrAlreadyInCrew возвращается когда пользователь уже состоит в каком-либо крю
	ErrAlreadyInCrew = errors.New("member already belongs to a crew")

	// ErrApplicationExists возвращается при повторной заявке в то же крю
	ErrApplicationExists = errors.New("pending application already exists")

	// ErrCrewFull возвращается при превышении лимита участников крю
	ErrCrewFull = errors.New("crew member limit exceeded")

	// ErrCrewNotEmpty возвращается когда лидер пытается покинуть непустое крю
	ErrCrewNotEmpty = errors.New("leader cannot leave a crew with members")

	// ErrCannotRemoveLeader возвращается при попытке исключить лидера крю
	ErrCannotRemoveLeader = errors.New("crew leader cannot be removed")

	// ErrMissionNotDone возвращается при попытке завершить невыполненную миссию
	ErrMissionNotDone = errors.New("mission progress has not reached 100 percent")

	// ErrDataIntegrity возвращается при нарушении целостности данных
	// (отсутствуют строки миссий или лидер крю не существует)
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeNotFound          ErrorCode = "NOT_FOUND"          // Ресурс не найден
	CodeForbidden         ErrorCode = "FORBIDDEN"          // Нет прав на операцию
	CodeAlreadyInCrew     ErrorCode = "ALREADY_IN_CREW"    // Пользователь уже в крю
	CodeApplicationExists ErrorCode = "APPLICATION_EXISTS" // Заявка уже подана
	CodeCrewFull          ErrorCode = "CREW_FULL"          // Крю заполнено
	CodeCrewNotEmpty      ErrorCode = "CREW_NOT_EMPTY"     // В крю остались участники
	CodeLeaderImmutable   ErrorCode = "LEADER_IMMUTABLE"   // Лидера нельзя исключить
	CodeMissionNotDone    ErrorCode = "MISSION_NOT_DONE"   // Миссия не выполнена
	CodeInternal          ErrorCode = "INTERNAL_ERROR"     // Внутренняя ошибка
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrAlreadyInCrew):
		return CodeAlreadyInCrew
	case errors.Is(err, ErrApplicationExists):
		return CodeApplicationExists
	case errors.Is(err, ErrCrewFull):
		return CodeCrewFull
	case errors.Is(err, ErrCrewNotEmpty):
		return CodeCrewNotEmpty
	case errors.Is(err, ErrCannotRemoveLeader):
		return CodeLeaderImmutable
	case errors.Is(err, ErrMissionNotDone):
		return CodeMissionNotDone
	case errors.Is(err, ErrNotCrewMember), errors.Is(err, ErrNotLeader):
		return CodeForbidden
	case errors.Is(err, ErrMemberNotFound), errors.Is(err, ErrCrewNotFound),
		errors.Is(err, ErrApplicationNotFound), errors.Is(err, ErrMissionNotFound),
		errors.Is(err, ErrRecordNotFound), errors.Is(err, ErrMembershipNotFound):
		return CodeNotFound
	case errors.Is(err, ErrDataIntegrity):
		return CodeInternal
	default:
		return CodeInternal
	}
}

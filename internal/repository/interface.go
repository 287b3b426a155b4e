package repository

import (
	"context"
	"time"

	"github.com/runningplanet/crew-service/internal/domain"
)

// MemberRepository определяет методы для чтения данных участников
type MemberRepository interface {
	// GetByID получает участника по ID
	GetByID(ctx context.Context, memberID int64) (*domain.Member, error)

	// ExistsByID проверяет существование участника
	ExistsByID(ctx context.Context, memberID int64) (bool, error)
}

// CrewRepository определяет методы для работы с данными крю
type CrewRepository interface {
	// Create создает новое крю и возвращает его ID
	Create(ctx context.Context, crew *domain.Crew) (int64, error)

	// GetByID получает крю по ID (мягко удаленные не возвращаются)
	GetByID(ctx context.Context, crewID int64) (*domain.Crew, error)

	// GetAll возвращает все активные крю
	GetAll(ctx context.Context) ([]*domain.Crew, error)

	// Update обновляет изменяемые поля крю (политика приема, описание, цели)
	Update(ctx context.Context, crew *domain.Crew) error

	// Delete мягко удаляет крю
	Delete(ctx context.Context, crewID int64) error

	// ExistsByID проверяет существование крю
	ExistsByID(ctx context.Context, crewID int64) (bool, error)

	// ReplaceTags заменяет все теги крю (delete-all-then-insert)
	ReplaceTags(ctx context.Context, crewID int64, tags []string) error

	// GetTags возвращает теги крю
	GetTags(ctx context.Context, crewID int64) ([]string, error)

	// GetImageURL возвращает URL логотипа крю, пустую строку если его нет
	GetImageURL(ctx context.Context, crewID int64) (string, error)

	// SetImageURL сохраняет или заменяет URL логотипа крю
	SetImageURL(ctx context.Context, crewID int64, name, url string) error
}

// CrewMemberRepository определяет методы для работы с членством в крю
type CrewMemberRepository interface {
	// Create создает членство участника в крю
	Create(ctx context.Context, cm *domain.CrewMember) error

	// GetByMemberID получает членство участника в любом крю
	GetByMemberID(ctx context.Context, memberID int64) (*domain.CrewMember, error)

	// GetByCrewAndMember получает членство участника в конкретном крю
	GetByCrewAndMember(ctx context.Context, crewID, memberID int64) (*domain.CrewMember, error)

	// ExistsByCrewAndMember проверяет членство участника в конкретном крю
	ExistsByCrewAndMember(ctx context.Context, crewID, memberID int64) (bool, error)

	// CountByCrewID возвращает текущее число участников крю
	CountByCrewID(ctx context.Context, crewID int64) (int, error)

	// GetMembersByCrewID возвращает всех участников крю
	GetMembersByCrewID(ctx context.Context, crewID int64) ([]*domain.Member, error)

	// Delete удаляет членство
	Delete(ctx context.Context, id int64) error
}

// CrewApplicationRepository определяет методы для работы с заявками на вступление
type CrewApplicationRepository interface {
	// Create создает PENDING заявку
	Create(ctx context.Context, app *domain.CrewApplication) (int64, error)

	// GetByCrewAndMember получает заявку пары (крю, участник) в любом статусе
	GetByCrewAndMember(ctx context.Context, crewID, memberID int64) (*domain.CrewApplication, error)

	// GetPendingByCrewAndMember получает PENDING заявку для пары (крю, участник)
	GetPendingByCrewAndMember(ctx context.Context, crewID, memberID int64) (*domain.CrewApplication, error)

	// GetAllPendingByCrewID возвращает все PENDING заявки крю
	GetAllPendingByCrewID(ctx context.Context, crewID int64) ([]*domain.CrewApplication, error)

	// UpdateStatus переводит заявку в APPROVED или REJECTED
	UpdateStatus(ctx context.Context, id int64, status domain.Approval) error

	// Delete удаляет заявку (отзыв заявителем)
	Delete(ctx context.Context, id int64) error
}

// CrewMissionRepository определяет методы для работы с миссиями крю
type CrewMissionRepository interface {
	// CreateForPairing создает обе миссии (DISTANCE и DURATION) для пары (крю, участник)
	CreateForPairing(ctx context.Context, crewID, memberID int64) error

	// GetAllByCrewAndMember возвращает миссии пары (крю, участник)
	GetAllByCrewAndMember(ctx context.Context, crewID, memberID int64) ([]*domain.CrewMission, error)

	// GetByID получает миссию по ID
	GetByID(ctx context.Context, missionID int64) (*domain.CrewMission, error)

	// Complete выставляет флаг выполнения (идемпотентно, назад не сбрасывается)
	Complete(ctx context.Context, missionID int64) error
}

// RecordRepository определяет методы для работы с записями о пробежках
type RecordRepository interface {
	// Save создает или обновляет запись о пробежке
	Save(ctx context.Context, rec *domain.Record) (*domain.Record, error)

	// GetOpenByMemberID возвращает незавершенную запись участника, если есть
	GetOpenByMemberID(ctx context.Context, memberID int64) (*domain.Record, error)

	// GetByIDAndMember возвращает завершенную запись участника по ID
	GetByIDAndMember(ctx context.Context, recordID, memberID int64) (*domain.Record, error)

	// GetAllByMemberBetween возвращает все записи участника за период, включая незавершенные
	GetAllByMemberBetween(ctx context.Context, memberID int64, from, to time.Time) ([]*domain.Record, error)

	// GetFinishedByMemberBetween возвращает завершенные записи участника за период
	GetFinishedByMemberBetween(ctx context.Context, memberID int64, from, to time.Time) ([]*domain.Record, error)

	// GetAllByMembersBetween возвращает все записи группы участников за период
	GetAllByMembersBetween(ctx context.Context, memberIDs []int64, from, to time.Time) ([]*domain.Record, error)

	// AddCoordinate добавляет GPS-точку к записи
	AddCoordinate(ctx context.Context, coord *domain.Coordinate) error

	// GetCoordinates возвращает все GPS-точки записи в порядке создания
	GetCoordinates(ctx context.Context, recordID int64) ([]*domain.Coordinate, error)

	// GetLastCoordinate возвращает последнюю GPS-точку записи
	GetLastCoordinate(ctx context.Context, recordID int64) (*domain.Coordinate, error)
}

package postgres

import (
	"context"
	"errors"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/runningplanet/crew-service/internal/domain"
)

// CrewMissionRepository реализует repository.CrewMissionRepository для PostgreSQL
type CrewMissionRepository struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewCrewMissionRepository создает новый экземпляр CrewMissionRepository
func NewCrewMissionRepository(db *pgxpool.Pool) *CrewMissionRepository {
	return &CrewMissionRepository{db: db, getter: trmpgx.DefaultCtxGetter}
}

func (r *CrewMissionRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

// CreateForPairing создает обе миссии (DISTANCE и DURATION) для пары (крю, участник)
func (r *CrewMissionRepository) CreateForPairing(ctx context.Context, crewID, memberID int64) error {
	query := `
		INSERT INTO crew_missions (crew_id, member_id, mission_type, completed)
		VALUES ($1, $2, $3, false)
	`

	for _, missionType := range []domain.MissionType{domain.MissionDistance, domain.MissionDuration} {
		if _, err := r.conn(ctx).Exec(ctx, query, crewID, memberID, missionType); err != nil {
			return err
		}
	}

	return nil
}

// GetAllByCrewAndMember возвращает миссии пары (крю, участник)
func (r *CrewMissionRepository) GetAllByCrewAndMember(ctx context.Context, crewID, memberID int64) ([]*domain.CrewMission, error) {
	query := `
		SELECT mission_id, crew_id, member_id, mission_type, completed
		FROM crew_missions
		WHERE crew_id = $1 AND member_id = $2
		ORDER BY mission_id
	`

	rows, err := r.conn(ctx).Query(ctx, query, crewID, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missions []*domain.CrewMission
	for rows.Next() {
		var m domain.CrewMission
		if err := rows.Scan(&m.ID, &m.CrewID, &m.MemberID, &m.Type, &m.Completed); err != nil {
			return nil, err
		}
		missions = append(missions, &m)
	}

	return missions, rows.Err()
}

// GetByID получает миссию по ID
func (r *CrewMissionRepository) GetByID(ctx context.Context, missionID int64) (*domain.CrewMission, error) {
	query := `
		SELECT mission_id, crew_id, member_id, mission_type, completed
		FROM crew_missions
		WHERE mission_id = $1
	`

	var m domain.CrewMission
	err := r.conn(ctx).QueryRow(ctx, query, missionID).Scan(&m.ID, &m.CrewID, &m.MemberID, &m.Type, &m.Completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMissionNotFound
		}
		return nil, err
	}

	return &m, nil
}

// Complete выставляет флаг выполнения миссии (идемпотентно)
func (r *CrewMissionRepository) Complete(ctx context.Context, missionID int64) error {
	query := `
		UPDATE crew_missions
		SET completed = true, updated_at = NOW()
		WHERE mission_id = $1
	`

	result, err := r.conn(ctx).Exec(ctx, query, missionID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrMissionNotFound
	}

	return nil
}

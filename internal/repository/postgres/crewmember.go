package postgres

import (
	"context"
	"errors"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/runningplanet/crew-service/internal/domain"
)

// CrewMemberRepository реализует repository.CrewMemberRepository для PostgreSQL.
// Уникальный индекс по member_id служит последней линией защиты инварианта
// "участник состоит не более чем в одном крю".
type CrewMemberRepository struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewCrewMemberRepository создает новый экземпляр CrewMemberRepository
func NewCrewMemberRepository(db *pgxpool.Pool) *CrewMemberRepository {
	return &CrewMemberRepository{db: db, getter: trmpgx.DefaultCtxGetter}
}

func (r *CrewMemberRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

// Create создает членство участника в крю
func (r *CrewMemberRepository) Create(ctx context.Context, cm *domain.CrewMember) error {
	query := `
		INSERT INTO crew_members (crew_id, member_id, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.conn(ctx).QueryRow(ctx, query, cm.CrewID, cm.MemberID, cm.Role).Scan(&cm.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation: участник уже в крю
				return domain.ErrAlreadyInCrew
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return domain.ErrMemberNotFound
			}
		}
		return err
	}

	return nil
}

// GetByMemberID получает членство участника в любом крю
func (r *CrewMemberRepository) GetByMemberID(ctx context.Context, memberID int64) (*domain.CrewMember, error) {
	query := `
		SELECT id, crew_id, member_id, role
		FROM crew_members
		WHERE member_id = $1
	`

	var cm domain.CrewMember
	err := r.conn(ctx).QueryRow(ctx, query, memberID).Scan(&cm.ID, &cm.CrewID, &cm.MemberID, &cm.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}

	return &cm, nil
}

// GetByCrewAndMember получает членство участника в конкретном крю
func (r *CrewMemberRepository) GetByCrewAndMember(ctx context.Context, crewID, memberID int64) (*domain.CrewMember, error) {
	query := `
		SELECT id, crew_id, member_id, role
		FROM crew_members
		WHERE crew_id = $1 AND member_id = $2
	`

	var cm domain.CrewMember
	err := r.conn(ctx).QueryRow(ctx, query, crewID, memberID).Scan(&cm.ID, &cm.CrewID, &cm.MemberID, &cm.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}

	return &cm, nil
}

// ExistsByCrewAndMember проверяет членство участника в конкретном крю
func (r *CrewMemberRepository) ExistsByCrewAndMember(ctx context.Context, crewID, memberID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM crew_members WHERE crew_id = $1 AND member_id = $2)`

	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, query, crewID, memberID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// CountByCrewID возвращает текущее число участников крю
func (r *CrewMemberRepository) CountByCrewID(ctx context.Context, crewID int64) (int, error) {
	query := `SELECT COUNT(*) FROM crew_members WHERE crew_id = $1`

	var count int
	if err := r.conn(ctx).QueryRow(ctx, query, crewID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// GetMembersByCrewID возвращает всех участников крю
func (r *CrewMemberRepository) GetMembersByCrewID(ctx context.Context, crewID int64) ([]*domain.Member, error) {
	query := `
		SELECT m.member_id, m.nickname, m.gender, m.age, m.weight, m.profile_img,
		       m.avg_pace, m.avg_distance, m.total_distance, m.run_score
		FROM members m
		INNER JOIN crew_members cm ON m.member_id = cm.member_id
		WHERE cm.crew_id = $1
		ORDER BY m.member_id
	`

	rows, err := r.conn(ctx).Query(ctx, query, crewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(
			&m.ID,
			&m.Nickname,
			&m.Gender,
			&m.Age,
			&m.Weight,
			&m.ProfileImg,
			&m.AvgPace,
			&m.AvgDistance,
			&m.TotalDistance,
			&m.RunScore,
		); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}

// Delete удаляет членство
func (r *CrewMemberRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM crew_members WHERE id = $1`

	result, err := r.conn(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrMembershipNotFound
	}

	return nil
}

package postgres

import (
	"context"
	"errors"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/runningplanet/crew-service/internal/domain"
)

// MemberRepository реализует repository.MemberRepository для PostgreSQL
type MemberRepository struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewMemberRepository создает новый экземпляр MemberRepository
func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db, getter: trmpgx.DefaultCtxGetter}
}

func (r *MemberRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

// GetByID получает участника по ID
func (r *MemberRepository) GetByID(ctx context.Context, memberID int64) (*domain.Member, error) {
	query := `
		SELECT member_id, nickname, gender, age, weight, profile_img,
		       avg_pace, avg_distance, total_distance, run_score
		FROM members
		WHERE member_id = $1
	`

	var m domain.Member
	err := r.conn(ctx).QueryRow(ctx, query, memberID).Scan(
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
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

// ExistsByID проверяет существование участника
func (r *MemberRepository) ExistsByID(ctx context.Context, memberID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE member_id = $1)`

	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, query, memberID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

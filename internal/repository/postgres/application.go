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

// CrewApplicationRepository реализует repository.CrewApplicationRepository
// для PostgreSQL. Частичный уникальный индекс по (crew_id, member_id) для
// статуса PENDING закрывает гонку между проверкой и вставкой.
type CrewApplicationRepository struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewCrewApplicationRepository создает новый экземпляр CrewApplicationRepository
func NewCrewApplicationRepository(db *pgxpool.Pool) *CrewApplicationRepository {
	return &CrewApplicationRepository{db: db, getter: trmpgx.DefaultCtxGetter}
}

func (r *CrewApplicationRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

// Create создает PENDING заявку
func (r *CrewApplicationRepository) Create(ctx context.Context, app *domain.CrewApplication) (int64, error) {
	query := `
		INSERT INTO crew_applications (crew_id, member_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.conn(ctx).QueryRow(ctx, query, app.CrewID, app.MemberID, app.Message, domain.ApprovalPending).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return 0, domain.ErrApplicationExists
		}
		return 0, err
	}

	return id, nil
}

// GetByCrewAndMember получает заявку пары (крю, участник) в любом статусе
func (r *CrewApplicationRepository) GetByCrewAndMember(ctx context.Context, crewID, memberID int64) (*domain.CrewApplication, error) {
	query := `
		SELECT id, crew_id, member_id, message, status
		FROM crew_applications
		WHERE crew_id = $1 AND member_id = $2
		ORDER BY id DESC
		LIMIT 1
	`

	return r.scanOne(ctx, query, crewID, memberID)
}

// GetPendingByCrewAndMember получает PENDING заявку для пары (крю, участник)
func (r *CrewApplicationRepository) GetPendingByCrewAndMember(ctx context.Context, crewID, memberID int64) (*domain.CrewApplication, error) {
	query := `
		SELECT id, crew_id, member_id, message, status
		FROM crew_applications
		WHERE crew_id = $1 AND member_id = $2 AND status = 'PENDING'
	`

	return r.scanOne(ctx, query, crewID, memberID)
}

func (r *CrewApplicationRepository) scanOne(ctx context.Context, query string, args ...any) (*domain.CrewApplication, error) {
	var app domain.CrewApplication
	err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(
		&app.ID,
		&app.CrewID,
		&app.MemberID,
		&app.Message,
		&app.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}

	return &app, nil
}

// GetAllPendingByCrewID возвращает все PENDING заявки крю
func (r *CrewApplicationRepository) GetAllPendingByCrewID(ctx context.Context, crewID int64) ([]*domain.CrewApplication, error) {
	query := `
		SELECT id, crew_id, member_id, message, status
		FROM crew_applications
		WHERE crew_id = $1 AND status = 'PENDING'
		ORDER BY id
	`

	rows, err := r.conn(ctx).Query(ctx, query, crewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*domain.CrewApplication
	for rows.Next() {
		var app domain.CrewApplication
		if err := rows.Scan(&app.ID, &app.CrewID, &app.MemberID, &app.Message, &app.Status); err != nil {
			return nil, err
		}
		apps = append(apps, &app)
	}

	return apps, rows.Err()
}

// UpdateStatus переводит заявку в APPROVED или REJECTED
func (r *CrewApplicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.Approval) error {
	query := `
		UPDATE crew_applications
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.conn(ctx).Exec(ctx, query, status, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrApplicationNotFound
	}

	return nil
}

// Delete удаляет заявку
func (r *CrewApplicationRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM crew_applications WHERE id = $1`

	result, err := r.conn(ctx).Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrApplicationNotFound
	}

	return nil
}

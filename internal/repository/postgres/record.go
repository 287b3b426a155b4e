package postgres

import (
	"context"
	"errors"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/runningplanet/crew-service/internal/domain"
)

// RecordRepository реализует repository.RecordRepository для PostgreSQL.
// Записи удаляются мягко, выборки фильтруют deleted_at IS NULL.
type RecordRepository struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewRecordRepository создает новый экземпляр RecordRepository
func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db, getter: trmpgx.DefaultCtxGetter}
}

func (r *RecordRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

const recordColumns = `record_id, member_id, run_time, run_distance, calories, avg_pace, end_time, created_at`

// Save создает запись (ID == 0) или обновляет существующую
func (r *RecordRepository) Save(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	if rec.ID == 0 {
		query := `
			INSERT INTO records (member_id, run_time, run_distance, calories, avg_pace, end_time)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING record_id, created_at
		`

		err := r.conn(ctx).QueryRow(ctx, query,
			rec.MemberID, rec.RunTime, rec.RunDistance, rec.Calories, rec.AvgPace, rec.EndTime,
		).Scan(&rec.ID, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}

		return rec, nil
	}

	query := `
		UPDATE records
		SET run_time = $1, run_distance = $2, calories = $3, avg_pace = $4,
		    end_time = $5, updated_at = NOW()
		WHERE record_id = $6 AND deleted_at IS NULL
	`

	result, err := r.conn(ctx).Exec(ctx, query,
		rec.RunTime, rec.RunDistance, rec.Calories, rec.AvgPace, rec.EndTime, rec.ID,
	)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected() == 0 {
		return nil, domain.ErrRecordNotFound
	}

	return rec, nil
}

// GetOpenByMemberID возвращает незавершенную запись участника, если есть.
// Отсутствие открытой записи не ошибка: возвращается (nil, nil).
func (r *RecordRepository) GetOpenByMemberID(ctx context.Context, memberID int64) (*domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE member_id = $1 AND end_time IS NULL AND deleted_at IS NULL
	`

	rec, err := r.scanOne(ctx, query, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return rec, nil
}

// GetByIDAndMember возвращает завершенную запись участника по ID
func (r *RecordRepository) GetByIDAndMember(ctx context.Context, recordID, memberID int64) (*domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE record_id = $1 AND member_id = $2 AND end_time IS NOT NULL AND deleted_at IS NULL
	`

	return r.scanOne(ctx, query, recordID, memberID)
}

func (r *RecordRepository) scanOne(ctx context.Context, query string, args ...any) (*domain.Record, error) {
	var rec domain.Record
	err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(
		&rec.ID,
		&rec.MemberID,
		&rec.RunTime,
		&rec.RunDistance,
		&rec.Calories,
		&rec.AvgPace,
		&rec.EndTime,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &rec, nil
}

// GetAllByMemberBetween возвращает все записи участника за период
func (r *RecordRepository) GetAllByMemberBetween(ctx context.Context, memberID int64, from, to time.Time) ([]*domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE member_id = $1 AND created_at >= $2 AND created_at < $3 AND deleted_at IS NULL
		ORDER BY created_at
	`

	return r.scanAll(ctx, query, memberID, from, to)
}

// GetFinishedByMemberBetween возвращает завершенные записи участника за период
func (r *RecordRepository) GetFinishedByMemberBetween(ctx context.Context, memberID int64, from, to time.Time) ([]*domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE member_id = $1 AND created_at >= $2 AND created_at < $3
		  AND end_time IS NOT NULL AND deleted_at IS NULL
		ORDER BY created_at
	`

	return r.scanAll(ctx, query, memberID, from, to)
}

// GetAllByMembersBetween возвращает все записи группы участников за период
func (r *RecordRepository) GetAllByMembersBetween(ctx context.Context, memberIDs []int64, from, to time.Time) ([]*domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE member_id = ANY($1) AND created_at >= $2 AND created_at < $3 AND deleted_at IS NULL
		ORDER BY member_id, created_at
	`

	return r.scanAll(ctx, query, memberIDs, from, to)
}

func (r *RecordRepository) scanAll(ctx context.Context, query string, args ...any) ([]*domain.Record, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(
			&rec.ID,
			&rec.MemberID,
			&rec.RunTime,
			&rec.RunDistance,
			&rec.Calories,
			&rec.AvgPace,
			&rec.EndTime,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// AddCoordinate добавляет GPS-точку к записи
func (r *RecordRepository) AddCoordinate(ctx context.Context, coord *domain.Coordinate) error {
	query := `
		INSERT INTO coordinates (record_id, latitude, longitude)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return r.conn(ctx).QueryRow(ctx, query, coord.RecordID, coord.Latitude, coord.Longitude).
		Scan(&coord.ID, &coord.CreatedAt)
}

// GetCoordinates возвращает все GPS-точки записи в порядке создания
func (r *RecordRepository) GetCoordinates(ctx context.Context, recordID int64) ([]*domain.Coordinate, error) {
	query := `
		SELECT id, record_id, latitude, longitude, created_at
		FROM coordinates
		WHERE record_id = $1
		ORDER BY created_at
	`

	rows, err := r.conn(ctx).Query(ctx, query, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coords []*domain.Coordinate
	for rows.Next() {
		var c domain.Coordinate
		if err := rows.Scan(&c.ID, &c.RecordID, &c.Latitude, &c.Longitude, &c.CreatedAt); err != nil {
			return nil, err
		}
		coords = append(coords, &c)
	}

	return coords, rows.Err()
}

// GetLastCoordinate возвращает последнюю GPS-точку записи
func (r *RecordRepository) GetLastCoordinate(ctx context.Context, recordID int64) (*domain.Coordinate, error) {
	query := `
		SELECT id, record_id, latitude, longitude, created_at
		FROM coordinates
		WHERE record_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var c domain.Coordinate
	err := r.conn(ctx).QueryRow(ctx, query, recordID).Scan(&c.ID, &c.RecordID, &c.Latitude, &c.Longitude, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &c, nil
}

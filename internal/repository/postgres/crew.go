package postgres

import (
	"context"
	"errors"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/runningplanet/crew-service/internal/domain"
)

// CrewRepository реализует repository.CrewRepository для PostgreSQL.
// Крю удаляются мягко: все выборки фильтруют deleted_at IS NULL.
type CrewRepository struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewCrewRepository создает новый экземпляр CrewRepository
func NewCrewRepository(db *pgxpool.Pool) *CrewRepository {
	return &CrewRepository{db: db, getter: trmpgx.DefaultCtxGetter}
}

func (r *CrewRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

// Create создает новое крю и возвращает его ID
func (r *CrewRepository) Create(ctx context.Context, crew *domain.Crew) (int64, error) {
	query := `
		INSERT INTO crews (leader_id, crew_name, capacity, category, approval_type,
		                   introduction, distance_target, duration_target)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING crew_id
	`

	var id int64
	err := r.conn(ctx).QueryRow(ctx, query,
		crew.LeaderID,
		crew.Name,
		crew.Capacity,
		crew.Category,
		crew.ApprovalType,
		crew.Introduction,
		crew.Rule.DistanceTarget,
		crew.Rule.DurationTarget,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetByID получает крю по ID
func (r *CrewRepository) GetByID(ctx context.Context, crewID int64) (*domain.Crew, error) {
	query := `
		SELECT crew_id, leader_id, crew_name, capacity, category, approval_type,
		       introduction, distance_target, duration_target
		FROM crews
		WHERE crew_id = $1 AND deleted_at IS NULL
	`

	var c domain.Crew
	err := r.conn(ctx).QueryRow(ctx, query, crewID).Scan(
		&c.ID,
		&c.LeaderID,
		&c.Name,
		&c.Capacity,
		&c.Category,
		&c.ApprovalType,
		&c.Introduction,
		&c.Rule.DistanceTarget,
		&c.Rule.DurationTarget,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCrewNotFound
		}
		return nil, err
	}

	return &c, nil
}

// GetAll возвращает все активные крю
func (r *CrewRepository) GetAll(ctx context.Context) ([]*domain.Crew, error) {
	query := `
		SELECT crew_id, leader_id, crew_name, capacity, category, approval_type,
		       introduction, distance_target, duration_target
		FROM crews
		WHERE deleted_at IS NULL
		ORDER BY crew_id
	`

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crews []*domain.Crew
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(
			&c.ID,
			&c.LeaderID,
			&c.Name,
			&c.Capacity,
			&c.Category,
			&c.ApprovalType,
			&c.Introduction,
			&c.Rule.DistanceTarget,
			&c.Rule.DurationTarget,
		); err != nil {
			return nil, err
		}
		crews = append(crews, &c)
	}

	return crews, rows.Err()
}

// Update обновляет изменяемые поля крю
func (r *CrewRepository) Update(ctx context.Context, crew *domain.Crew) error {
	query := `
		UPDATE crews
		SET approval_type = $1,
		    introduction = $2,
		    distance_target = $3,
		    duration_target = $4,
		    updated_at = NOW()
		WHERE crew_id = $5 AND deleted_at IS NULL
	`

	result, err := r.conn(ctx).Exec(ctx, query,
		crew.ApprovalType,
		crew.Introduction,
		crew.Rule.DistanceTarget,
		crew.Rule.DurationTarget,
		crew.ID,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCrewNotFound
	}

	return nil
}

// Delete мягко удаляет крю
func (r *CrewRepository) Delete(ctx context.Context, crewID int64) error {
	query := `
		UPDATE crews
		SET deleted_at = NOW()
		WHERE crew_id = $1 AND deleted_at IS NULL
	`

	result, err := r.conn(ctx).Exec(ctx, query, crewID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCrewNotFound
	}

	return nil
}

// ExistsByID проверяет существование крю
func (r *CrewRepository) ExistsByID(ctx context.Context, crewID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM crews WHERE crew_id = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, query, crewID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// ReplaceTags заменяет все теги крю
func (r *CrewRepository) ReplaceTags(ctx context.Context, crewID int64, tags []string) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM crew_tags WHERE crew_id = $1`, crewID); err != nil {
		return err
	}

	insertQuery := `INSERT INTO crew_tags (crew_id, content) VALUES ($1, $2)`
	for _, tag := range tags {
		if _, err := r.conn(ctx).Exec(ctx, insertQuery, crewID, tag); err != nil {
			return err
		}
	}

	return nil
}

// GetTags возвращает теги крю
func (r *CrewRepository) GetTags(ctx context.Context, crewID int64) ([]string, error) {
	query := `SELECT content FROM crew_tags WHERE crew_id = $1 ORDER BY tag_id`

	rows, err := r.conn(ctx).Query(ctx, query, crewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// GetImageURL возвращает URL логотипа крю, пустую строку если его нет
func (r *CrewRepository) GetImageURL(ctx context.Context, crewID int64) (string, error) {
	query := `SELECT url FROM crew_images WHERE crew_id = $1`

	var url string
	err := r.conn(ctx).QueryRow(ctx, query, crewID).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return url, nil
}

// SetImageURL сохраняет или заменяет URL логотипа крю
func (r *CrewRepository) SetImageURL(ctx context.Context, crewID int64, name, url string) error {
	query := `
		INSERT INTO crew_images (crew_id, name, url)
		VALUES ($1, $2, $3)
		ON CONFLICT (crew_id) DO UPDATE
		SET name = EXCLUDED.name,
		    url = EXCLUDED.url,
		    updated_at = NOW()
	`

	_, err := r.conn(ctx).Exec(ctx, query, crewID, name, url)
	return err
}

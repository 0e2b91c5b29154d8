// README: Movement store backed by PostgreSQL.
package movement

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, m *Movement) error {
	return s.db.QueryRow(ctx, `
		INSERT INTO movements (plate, vehicle_class, rate_type, catalog_key, entry_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		m.Plate, m.VehicleClass, m.RateType, m.CatalogKey, m.EntryAt,
	).Scan(&m.ID)
}

func (s *PGStore) Get(ctx context.Context, id int64) (*Movement, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, plate, vehicle_class, rate_type, catalog_key, entry_at, exit_at, fee
		FROM movements
		WHERE id = $1`, id,
	)

	var m Movement
	var exitAt sql.NullTime
	var fee *decimal.Decimal
	err := row.Scan(
		&m.ID, &m.Plate, &m.VehicleClass, &m.RateType, &m.CatalogKey,
		&m.EntryAt, &exitAt, &fee,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if exitAt.Valid {
		t := exitAt.Time
		m.ExitAt = &t
	}
	m.Fee = fee
	return &m, nil
}

func (s *PGStore) SetExit(ctx context.Context, id int64, exitAt time.Time, fee decimal.Decimal) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE movements
		SET exit_at = $2, fee = $3
		WHERE id = $1 AND exit_at IS NULL`,
		id, exitAt, fee,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExited
	}
	return nil
}

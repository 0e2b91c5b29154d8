// README: Tariff catalog store backed by PostgreSQL.
package tariff

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) ListRows(ctx context.Context, catalogKey string) ([]Row, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, catalog_key, position, vehicle_classes, day_selector,
		       window_from, window_to, rate_type, unit_minutes, unit_price,
		       rounding, grace_minutes, min_charge, max_charge
		FROM tariff_rules
		WHERE catalog_key = $1
		ORDER BY position, id`, catalogKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var classes string
		if err := rows.Scan(
			&r.ID, &r.CatalogKey, &r.Position, &classes, &r.DaySelector,
			&r.WindowFrom, &r.WindowTo, &r.RateType, &r.UnitMinutes, &r.UnitPrice,
			&r.Rounding, &r.GraceMinutes, &r.MinCharge, &r.MaxCharge,
		); err != nil {
			return nil, err
		}
		r.VehicleClasses = splitClasses(classes)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListHolidays(ctx context.Context, catalogKey string) ([]time.Time, error) {
	rows, err := s.db.Query(ctx, `
		SELECT holiday_date
		FROM tariff_holidays
		WHERE catalog_key = $1
		ORDER BY holiday_date`, catalogKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) UpsertRow(ctx context.Context, r Row) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO tariff_rules (
			catalog_key, position, vehicle_classes, day_selector,
			window_from, window_to, rate_type, unit_minutes, unit_price,
			rounding, grace_minutes, min_charge, max_charge
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (catalog_key, position) DO UPDATE SET
			vehicle_classes = EXCLUDED.vehicle_classes,
			day_selector    = EXCLUDED.day_selector,
			window_from     = EXCLUDED.window_from,
			window_to       = EXCLUDED.window_to,
			rate_type       = EXCLUDED.rate_type,
			unit_minutes    = EXCLUDED.unit_minutes,
			unit_price      = EXCLUDED.unit_price,
			rounding        = EXCLUDED.rounding,
			grace_minutes   = EXCLUDED.grace_minutes,
			min_charge      = EXCLUDED.min_charge,
			max_charge      = EXCLUDED.max_charge
		RETURNING id`,
		r.CatalogKey, r.Position, joinClasses(r.VehicleClasses), r.DaySelector,
		r.WindowFrom, r.WindowTo, r.RateType, r.UnitMinutes, r.UnitPrice,
		r.Rounding, r.GraceMinutes, r.MinCharge, r.MaxCharge,
	).Scan(&id)
	return id, err
}

// ReplaceHolidays swaps the catalog's holiday dates in one transaction.
func (s *Store) ReplaceHolidays(ctx context.Context, catalogKey string, dates []time.Time) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tariff_holidays WHERE catalog_key = $1`, catalogKey); err != nil {
		return err
	}
	for _, d := range dates {
		if _, err := tx.Exec(ctx, `
			INSERT INTO tariff_holidays (catalog_key, holiday_date) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, catalogKey, d,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func splitClasses(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinClasses(classes []string) string {
	return strings.Join(classes, ",")
}

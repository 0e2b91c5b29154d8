// README: Movement service: entry/exit lifecycle with rating on exit.
package movement

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"carpark/internal/modules/rating"
)

// Store is the persistence surface the service needs; *PGStore implements it.
type Store interface {
	Create(ctx context.Context, m *Movement) error
	Get(ctx context.Context, id int64) (*Movement, error)
	SetExit(ctx context.Context, id int64, exitAt time.Time, fee decimal.Decimal) error
}

// Counter is the injected occupancy counter; *RedisCounter implements it.
type Counter interface {
	Enter(ctx context.Context) (int64, error)
	Leave(ctx context.Context) (int64, error)
	Current(ctx context.Context) (int64, error)
}

// Rater computes the fee for a completed stay; tariff.Service implements it.
type Rater interface {
	Quote(ctx context.Context, stay rating.Stay, catalogKey string) (decimal.Decimal, error)
}

type Service struct {
	store   Store
	counter Counter
	rater   Rater
}

func NewService(store Store, counter Counter, rater Rater) *Service {
	return &Service{store: store, counter: counter, rater: rater}
}

type EntryCommand struct {
	Plate        string
	VehicleClass string
	RateType     string
	CatalogKey   string
	At           time.Time
}

// RecordEntry opens a movement and bumps the occupancy counter. A counter
// failure is logged, not fatal: the transaction row is the source of truth.
func (s *Service) RecordEntry(ctx context.Context, cmd EntryCommand) (*Movement, error) {
	if cmd.Plate == "" || cmd.VehicleClass == "" || cmd.RateType == "" || cmd.CatalogKey == "" || cmd.At.IsZero() {
		return nil, fmt.Errorf("%w: missing entry fields", ErrBadRequest)
	}

	m := &Movement{
		Plate:        cmd.Plate,
		VehicleClass: cmd.VehicleClass,
		RateType:     cmd.RateType,
		CatalogKey:   cmd.CatalogKey,
		EntryAt:      cmd.At,
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}
	if _, err := s.counter.Enter(ctx); err != nil {
		log.Printf("occupancy increment failed for movement %d: %v", m.ID, err)
	}
	return m, nil
}

// RecordExit closes a movement: rates the stay, persists the fee, and drops
// the occupancy counter.
func (s *Service) RecordExit(ctx context.Context, id int64, at time.Time) (*Movement, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.ExitAt != nil {
		return nil, ErrAlreadyExited
	}
	if at.Before(m.EntryAt) {
		return nil, fmt.Errorf("%w: exit before entry", ErrBadRequest)
	}

	stay := rating.Stay{
		Entry:        m.EntryAt,
		Exit:         at,
		VehicleClass: m.VehicleClass,
		RateType:     m.RateType,
	}
	fee, err := s.rater.Quote(ctx, stay, m.CatalogKey)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetExit(ctx, id, at, fee); err != nil {
		return nil, err
	}
	if _, err := s.counter.Leave(ctx); err != nil {
		log.Printf("occupancy decrement failed for movement %d: %v", id, err)
	}

	m.ExitAt = &at
	m.Fee = &fee
	return m, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Movement, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Occupancy(ctx context.Context) (int64, error) {
	return s.counter.Current(ctx)
}

// README: Tariff catalog service: Redis-cached ruleset loading and fee quoting.
package tariff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"carpark/internal/modules/rating"
)

// CatalogStore is what the service needs from persistence; *Store implements
// it, tests substitute fixtures.
type CatalogStore interface {
	ListRows(ctx context.Context, catalogKey string) ([]Row, error)
	ListHolidays(ctx context.Context, catalogKey string) ([]time.Time, error)
	UpsertRow(ctx context.Context, r Row) (int64, error)
	ReplaceHolidays(ctx context.Context, catalogKey string, dates []time.Time) error
}

// Ruleset is a catalog ready for the engine.
type Ruleset struct {
	Rules    []rating.TariffRule
	Holidays rating.HolidaySet
}

type Service struct {
	store CatalogStore
	redis *redis.Client // nil disables caching
	ttl   time.Duration
}

func NewService(store CatalogStore, redisClient *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{store: store, redis: redisClient, ttl: cacheTTL}
}

// cachePayload is the cached wire form: raw rows plus holiday dates.
type cachePayload struct {
	Rows     []Row    `json:"rows"`
	Holidays []string `json:"holidays"`
}

func cacheKey(catalogKey string) string { return "tariff:catalog:" + catalogKey }

// Ruleset loads and parses a catalog, consulting the Redis cache first. An
// empty catalog is a configuration error naming the key, never a silent empty
// ruleset.
func (s *Service) Ruleset(ctx context.Context, catalogKey string) (Ruleset, error) {
	if payload, ok := s.cacheGet(ctx, catalogKey); ok {
		return s.build(catalogKey, payload)
	}

	rows, err := s.store.ListRows(ctx, catalogKey)
	if err != nil {
		return Ruleset{}, err
	}
	dates, err := s.store.ListHolidays(ctx, catalogKey)
	if err != nil {
		return Ruleset{}, err
	}

	payload := cachePayload{Rows: rows, Holidays: make([]string, 0, len(dates))}
	for _, d := range dates {
		payload.Holidays = append(payload.Holidays, d.Format("2006-01-02"))
	}
	s.cacheSet(ctx, catalogKey, payload)
	return s.build(catalogKey, payload)
}

func (s *Service) build(catalogKey string, payload cachePayload) (Ruleset, error) {
	if len(payload.Rows) == 0 {
		return Ruleset{}, fmt.Errorf("%w: empty catalog %q", rating.ErrConfiguration, catalogKey)
	}
	rs := Ruleset{
		Rules:    make([]rating.TariffRule, 0, len(payload.Rows)),
		Holidays: make(rating.HolidaySet, len(payload.Holidays)),
	}
	for _, row := range payload.Rows {
		rule, err := row.ToRule()
		if err != nil {
			return Ruleset{}, fmt.Errorf("catalog %q row %d: %w", catalogKey, row.ID, err)
		}
		rs.Rules = append(rs.Rules, rule)
	}
	for _, d := range payload.Holidays {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			return Ruleset{}, fmt.Errorf("catalog %q holiday %q: %w", catalogKey, d, err)
		}
		rs.Holidays.Add(day)
	}
	return rs, nil
}

// Quote rates one stay against the named catalog. This is the single fee
// entry point used by both the HTTP layer and the movement service.
func (s *Service) Quote(ctx context.Context, stay rating.Stay, catalogKey string) (decimal.Decimal, error) {
	rs, err := s.Ruleset(ctx, catalogKey)
	if err != nil {
		return decimal.Zero, err
	}
	fee, err := rating.ComputeFee(stay, rs.Rules, rs.Holidays)
	if err != nil {
		return decimal.Zero, fmt.Errorf("catalog %q: %w", catalogKey, err)
	}
	return fee, nil
}

// ListRules returns the stored rows of a catalog.
func (s *Service) ListRules(ctx context.Context, catalogKey string) ([]Row, error) {
	rows, err := s.store.ListRows(ctx, catalogKey)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, catalogKey)
	}
	return rows, nil
}

// Upsert validates and stores a row, then drops the catalog's cache entry.
func (s *Service) Upsert(ctx context.Context, row Row) (int64, error) {
	if _, err := row.ToRule(); err != nil {
		return 0, err
	}
	id, err := s.store.UpsertRow(ctx, row)
	if err != nil {
		return 0, err
	}
	s.cacheDrop(ctx, row.CatalogKey)
	return id, nil
}

// SetHolidays replaces a catalog's holiday dates and drops its cache entry.
func (s *Service) SetHolidays(ctx context.Context, catalogKey string, dates []time.Time) error {
	if err := s.store.ReplaceHolidays(ctx, catalogKey, dates); err != nil {
		return err
	}
	s.cacheDrop(ctx, catalogKey)
	return nil
}

func (s *Service) cacheGet(ctx context.Context, catalogKey string) (cachePayload, bool) {
	if s.redis == nil {
		return cachePayload{}, false
	}
	raw, err := s.redis.Get(ctx, cacheKey(catalogKey)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("tariff cache get %q: %v", catalogKey, err)
		}
		return cachePayload{}, false
	}
	var payload cachePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("tariff cache decode %q: %v", catalogKey, err)
		return cachePayload{}, false
	}
	return payload, true
}

func (s *Service) cacheSet(ctx context.Context, catalogKey string, payload cachePayload) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(catalogKey), raw, s.ttl).Err(); err != nil {
		log.Printf("tariff cache set %q: %v", catalogKey, err)
	}
}

func (s *Service) cacheDrop(ctx context.Context, catalogKey string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKey(catalogKey)).Err(); err != nil {
		log.Printf("tariff cache drop %q: %v", catalogKey, err)
	}
}

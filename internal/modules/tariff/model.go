// README: Tariff catalog model: stored rows and their mapping to engine rules.
package tariff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"carpark/internal/modules/rating"
)

var (
	ErrNotFound   = errors.New("tariff catalog not found")
	ErrInvalidRow = errors.New("invalid tariff row")
)

// Rounding tags as stored in the catalog.
const (
	RoundingUnit   = "unit"
	RoundingMinute = "minute"
)

// Row is one stored tariff row. Windows and day selectors are kept in their
// compact text notation and parsed when the row is turned into an engine rule.
type Row struct {
	ID             int64            `json:"id"`
	CatalogKey     string           `json:"catalog_key"`
	Position       int              `json:"position"`
	VehicleClasses []string         `json:"vehicle_classes"`
	DaySelector    string           `json:"day_selector"`
	WindowFrom     string           `json:"window_from"`
	WindowTo       string           `json:"window_to"`
	RateType       string           `json:"rate_type"`
	UnitMinutes    int              `json:"unit_minutes"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	Rounding       string           `json:"rounding"`
	GraceMinutes   int              `json:"grace_minutes"`
	MinCharge      *decimal.Decimal `json:"min_charge,omitempty"`
	MaxCharge      *decimal.Decimal `json:"max_charge,omitempty"`
}

// ToRule parses and validates the row into an engine rule.
func (r Row) ToRule() (rating.TariffRule, error) {
	sel, err := rating.ParseDaySelector(r.DaySelector)
	if err != nil {
		return rating.TariffRule{}, fmt.Errorf("%w: %v", ErrInvalidRow, err)
	}
	from, err := rating.ParseClockTime(r.WindowFrom)
	if err != nil {
		return rating.TariffRule{}, fmt.Errorf("%w: window from: %v", ErrInvalidRow, err)
	}
	to, err := rating.ParseClockTime(r.WindowTo)
	if err != nil {
		return rating.TariffRule{}, fmt.Errorf("%w: window to: %v", ErrInvalidRow, err)
	}

	var mode rating.RoundingMode
	switch strings.ToLower(strings.TrimSpace(r.Rounding)) {
	case "", RoundingUnit:
		mode = rating.RoundUnit
	case RoundingMinute:
		mode = rating.RoundMinute
	default:
		return rating.TariffRule{}, fmt.Errorf("%w: unknown rounding %q", ErrInvalidRow, r.Rounding)
	}

	rule := rating.TariffRule{
		VehicleClasses: r.VehicleClasses,
		Days:           sel,
		Window:         rating.Window{From: from, To: to},
		RateType:       r.RateType,
		UnitMinutes:    r.UnitMinutes,
		UnitPrice:      r.UnitPrice,
		Rounding:       mode,
		GraceMinutes:   r.GraceMinutes,
		MinCharge:      r.MinCharge,
		MaxCharge:      r.MaxCharge,
	}
	if err := rule.Validate(); err != nil {
		return rating.TariffRule{}, fmt.Errorf("%w: %v", ErrInvalidRow, err)
	}
	return rule, nil
}

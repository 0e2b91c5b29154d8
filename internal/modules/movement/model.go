// README: Movement model: one vehicle's entry/exit transaction.
package movement

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("movement not found")
	ErrAlreadyExited = errors.New("movement already exited")
	ErrBadRequest    = errors.New("bad request")
)

// Movement is one parking transaction. Fee is set when the vehicle exits and
// the stay has been rated.
type Movement struct {
	ID           int64
	Plate        string
	VehicleClass string
	RateType     string
	CatalogKey   string
	EntryAt      time.Time
	ExitAt       *time.Time
	Fee          *decimal.Decimal
}

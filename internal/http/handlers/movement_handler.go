// README: Movement endpoints: vehicle entry, exit with fee, lookup, occupancy.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carpark/internal/modules/movement"
	"carpark/internal/modules/rating"
)

type MovementService interface {
	RecordEntry(ctx context.Context, cmd movement.EntryCommand) (*movement.Movement, error)
	RecordExit(ctx context.Context, id int64, at time.Time) (*movement.Movement, error)
	Get(ctx context.Context, id int64) (*movement.Movement, error)
	Occupancy(ctx context.Context) (int64, error)
}

type MovementHandler struct {
	movements MovementService
}

func NewMovementHandler(svc MovementService) *MovementHandler {
	return &MovementHandler{movements: svc}
}

type entryReq struct {
	Plate         string `json:"plate"`
	VehicleType   string `json:"vehicleType"`
	RateType      string `json:"rateType"`
	Catalog       string `json:"catalog"`
	EntryDateTime string `json:"entryDateTime"`
}

func (h *MovementHandler) Enter(c *gin.Context) {
	var req entryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	at, err := parseStayTime(req.EntryDateTime)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid entryDateTime")
		return
	}

	m, err := h.movements.RecordEntry(c.Request.Context(), movement.EntryCommand{
		Plate:        req.Plate,
		VehicleClass: req.VehicleType,
		RateType:     req.RateType,
		CatalogKey:   req.Catalog,
		At:           at,
	})
	if err != nil {
		writeMovementError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"movement_id": m.ID,
		"entry_at":    m.EntryAt.Format(timeLayout),
	})
}

type exitReq struct {
	ExitDateTime string `json:"exitDateTime"`
}

func (h *MovementHandler) Exit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid movement id")
		return
	}
	var req exitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	at, err := parseStayTime(req.ExitDateTime)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid exitDateTime")
		return
	}

	m, err := h.movements.RecordExit(c.Request.Context(), id, at)
	if err != nil {
		writeMovementError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"movement_id": m.ID,
		"exit_at":     m.ExitAt.Format(timeLayout),
		"total_fee":   feeNumber(*m.Fee),
	})
}

func (h *MovementHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid movement id")
		return
	}
	m, err := h.movements.Get(c.Request.Context(), id)
	if err != nil {
		writeMovementError(c, err)
		return
	}
	resp := gin.H{
		"movement_id": m.ID,
		"plate":       m.Plate,
		"vehicleType": m.VehicleClass,
		"rateType":    m.RateType,
		"catalog":     m.CatalogKey,
		"entry_at":    m.EntryAt.Format(timeLayout),
	}
	if m.ExitAt != nil {
		resp["exit_at"] = m.ExitAt.Format(timeLayout)
	}
	if m.Fee != nil {
		resp["total_fee"] = feeNumber(*m.Fee)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MovementHandler) Occupancy(c *gin.Context) {
	n, err := h.movements.Occupancy(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"occupancy": n})
}

func writeMovementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, movement.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, movement.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, movement.ErrAlreadyExited):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, rating.ErrConfiguration):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

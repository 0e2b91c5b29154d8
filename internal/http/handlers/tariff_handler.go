// README: Tariff catalog endpoints: list rules, upsert a rule, set holidays.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpark/internal/modules/tariff"
)

type TariffService interface {
	ListRules(ctx context.Context, catalogKey string) ([]tariff.Row, error)
	Upsert(ctx context.Context, row tariff.Row) (int64, error)
	SetHolidays(ctx context.Context, catalogKey string, dates []time.Time) error
}

type TariffHandler struct {
	tariffs TariffService
}

func NewTariffHandler(svc TariffService) *TariffHandler {
	return &TariffHandler{tariffs: svc}
}

func (h *TariffHandler) List(c *gin.Context) {
	rows, err := h.tariffs.ListRules(c.Request.Context(), c.Param("catalog"))
	if err != nil {
		if errors.Is(err, tariff.ErrNotFound) {
			writeError(c, http.StatusNotFound, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rows})
}

func (h *TariffHandler) Upsert(c *gin.Context) {
	var row tariff.Row
	if err := c.ShouldBindJSON(&row); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	row.CatalogKey = c.Param("catalog")

	id, err := h.tariffs.Upsert(c.Request.Context(), row)
	if err != nil {
		if errors.Is(err, tariff.ErrInvalidRow) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type setHolidaysReq struct {
	Dates []string `json:"dates"`
}

func (h *TariffHandler) SetHolidays(c *gin.Context) {
	var req setHolidaysReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	dates := make([]time.Time, 0, len(req.Dates))
	for _, d := range req.Dates {
		day, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid holiday date "+d)
			return
		}
		dates = append(dates, day)
	}

	if err := h.tariffs.SetHolidays(c.Request.Context(), c.Param("catalog"), dates); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}

// README: Fee calculation endpoint.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"carpark/internal/modules/rating"
)

// FeeQuoter rates a stay against a named catalog; tariff.Service implements it.
type FeeQuoter interface {
	Quote(ctx context.Context, stay rating.Stay, catalogKey string) (decimal.Decimal, error)
}

type FeeHandler struct {
	quoter FeeQuoter
}

func NewFeeHandler(quoter FeeQuoter) *FeeHandler {
	return &FeeHandler{quoter: quoter}
}

type calculateFeeReq struct {
	EntryDateTime string `json:"entryDateTime"`
	ExitDateTime  string `json:"exitDateTime"`
	RateType      string `json:"rateType"`
	VehicleType   string `json:"vehicleType"`
	Catalog       string `json:"catalog"`
}

type calculateFeeResp struct {
	TotalFee json.Number `json:"total_fee"`
}

func (h *FeeHandler) Calculate(c *gin.Context) {
	var req calculateFeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.RateType == "" || req.VehicleType == "" || req.Catalog == "" {
		writeError(c, http.StatusBadRequest, "rateType, vehicleType and catalog are required")
		return
	}
	entry, err := parseStayTime(req.EntryDateTime)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid entryDateTime")
		return
	}
	exit, err := parseStayTime(req.ExitDateTime)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid exitDateTime")
		return
	}
	if !exit.After(entry) {
		writeError(c, http.StatusBadRequest, "exitDateTime must be after entryDateTime")
		return
	}

	stay := rating.Stay{
		Entry:        entry,
		Exit:         exit,
		VehicleClass: req.VehicleType,
		RateType:     req.RateType,
	}
	fee, err := h.quoter.Quote(c.Request.Context(), stay, req.Catalog)
	if err != nil {
		if errors.Is(err, rating.ErrConfiguration) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, calculateFeeResp{TotalFee: feeNumber(fee)})
}

// README: Shared handler helpers: JSON errors, naive timestamp parsing, fee
// serialization.
package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// timeLayout is the wire format for stay timestamps. Times are wall-clock
// local to the garage; no zone conversion happens anywhere in the pipeline.
const timeLayout = "2006-01-02T15:04:05"

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

func parseStayTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.Local)
}

// feeNumber renders a fee as a bare JSON number with exactly two decimals.
func feeNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

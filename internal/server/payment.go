package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/celenganapp/celengan/internal/payment/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) ListUnpaidPayments(c *gin.Context) {
	var query struct {
		Until string `form:"until"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := paymentdomain.ListUnpaidRequest{}
	if strings.TrimSpace(query.Until) != "" {
		until, err := parseDate(query.Until)
		if err != nil {
			AbortWithError(c, newValidationError("until", "invalid_until", "invalid until"))
			return
		}
		req.HorizonEndDate = &until
	}

	resp, err := s.paymentSvc.ListUnpaid(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Payments, "summary": resp.Summary})
}

func (s *Server) PayOccurrence(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req struct {
		Amount   *decimal.Decimal `json:"amount"`
		Category string           `json:"category"`
		Note     string           `json:"note"`
	}
	// An empty body means "pay the projected amount".
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.paymentSvc.Pay(c.Request.Context(), paymentdomain.PayRequest{
		PaymentID: id,
		Amount:    req.Amount,
		Category:  strings.TrimSpace(req.Category),
		Note:      strings.TrimSpace(req.Note),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/celenganapp/celengan/internal/subscription/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type subscriptionPayload struct {
	ProviderName      string          `json:"provider_name"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Frequency         string          `json:"frequency"`
	AnchorPaymentDate string          `json:"anchor_payment_date"`
}

func (s *Server) ListSubscriptions(c *gin.Context) {
	items, err := s.subscriptionSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) CreateSubscription(c *gin.Context) {
	var req subscriptionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	anchor, err := parseDate(req.AnchorPaymentDate)
	if err != nil {
		AbortWithError(c, newValidationError("anchor_payment_date", "invalid_anchor_payment_date", "invalid anchor_payment_date"))
		return
	}

	resp, err := s.subscriptionSvc.Create(c.Request.Context(), subscriptiondomain.CreateSubscriptionRequest{
		ProviderName:      strings.TrimSpace(req.ProviderName),
		Amount:            req.Amount,
		Currency:          strings.TrimSpace(req.Currency),
		Frequency:         subscriptiondomain.Frequency(strings.TrimSpace(req.Frequency)),
		AnchorPaymentDate: anchor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetSubscriptionByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	item, err := s.subscriptionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) UpdateSubscription(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req subscriptionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	anchor, err := parseDate(req.AnchorPaymentDate)
	if err != nil {
		AbortWithError(c, newValidationError("anchor_payment_date", "invalid_anchor_payment_date", "invalid anchor_payment_date"))
		return
	}

	resp, err := s.subscriptionSvc.Update(c.Request.Context(), subscriptiondomain.UpdateSubscriptionRequest{
		ID:                id,
		ProviderName:      strings.TrimSpace(req.ProviderName),
		Amount:            req.Amount,
		Currency:          strings.TrimSpace(req.Currency),
		Frequency:         subscriptiondomain.Frequency(strings.TrimSpace(req.Frequency)),
		AnchorPaymentDate: anchor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSubscription(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.subscriptionSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) SubscriptionSummary(c *gin.Context) {
	summary, err := s.subscriptionSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(raw))
}

package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	subscriptiondomain "github.com/smallbiznis/subtrack/internal/subscription/domain"
)

type createSubscriptionRequest struct {
	ServiceName   string          `json:"service_name"`
	Price         decimal.Decimal `json:"price"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       *time.Time      `json:"end_date"`
	Status        string          `json:"status"`
	Kind          string          `json:"kind"`
	MonthsEngaged int             `json:"months_engaged"`
}

type updateSubscriptionRequest struct {
	ServiceName   string           `json:"service_name"`
	Price         *decimal.Decimal `json:"price"`
	EndDate       *time.Time       `json:"end_date"`
	Status        string           `json:"status"`
	MonthsEngaged int              `json:"months_engaged"`
}

func (s *Server) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	kind := subscriptiondomain.SubscriptionKind(strings.ToUpper(strings.TrimSpace(req.Kind)))
	if kind == "" {
		kind = subscriptiondomain.SubscriptionKindFlexible
	}

	resp, err := s.subscriptionSvc.Create(c.Request.Context(), subscriptiondomain.CreateSubscriptionRequest{
		ServiceName:   strings.TrimSpace(req.ServiceName),
		Price:         req.Price,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        subscriptiondomain.SubscriptionStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
		Kind:          kind,
		MonthsEngaged: req.MonthsEngaged,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListSubscriptions(c *gin.Context) {
	var (
		resp []subscriptiondomain.Subscription
		err  error
	)
	if strings.EqualFold(c.Query("status"), string(subscriptiondomain.SubscriptionStatusActive)) {
		resp, err = s.subscriptionSvc.ListActive(c.Request.Context())
	} else {
		resp, err = s.subscriptionSvc.List(c.Request.Context())
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSubscriptionByID(c *gin.Context) {
	resp, err := s.subscriptionSvc.GetByID(c.Request.Context(), subscriptiondomain.GetSubscriptionRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateSubscription(c *gin.Context) {
	var req updateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.subscriptionSvc.Update(c.Request.Context(), subscriptiondomain.UpdateSubscriptionRequest{
		ID:            strings.TrimSpace(c.Param("id")),
		ServiceName:   strings.TrimSpace(req.ServiceName),
		Price:         req.Price,
		EndDate:       req.EndDate,
		Status:        subscriptiondomain.SubscriptionStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
		MonthsEngaged: req.MonthsEngaged,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSubscription(c *gin.Context) {
	if err := s.subscriptionSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GenerateSubscriptionPayments(c *gin.Context) {
	created, err := s.subscriptionSvc.GeneratePayments(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"payments_created": created}})
}

package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smallbiznis/subtrack/internal/payment/domain"
	"github.com/smallbiznis/subtrack/internal/schedule"
)

type recordPaymentRequest struct {
	ID             string     `json:"id"`
	SubscriptionID string     `json:"subscription_id"`
	DueDate        time.Time  `json:"due_date"`
	PaymentDate    *time.Time `json:"payment_date"`
	PaymentType    string     `json:"payment_type"`
}

// paymentResponse decorates a ledger row with its overdue state, which is
// derived at read time rather than stored.
type paymentResponse struct {
	paymentdomain.Payment
	Overdue bool `json:"overdue"`
}

func (s *Server) paymentView(p paymentdomain.Payment) paymentResponse {
	return paymentResponse{
		Payment: p,
		Overdue: schedule.IsOverdue(p.DueDate, p.PaymentDate, s.clock.Now()),
	}
}

func (s *Server) paymentViews(payments []paymentdomain.Payment) []paymentResponse {
	views := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		views = append(views, s.paymentView(p))
	}
	return views
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.Record(c.Request.Context(), paymentdomain.RecordPaymentRequest{
		ID:             strings.TrimSpace(req.ID),
		SubscriptionID: strings.TrimSpace(req.SubscriptionID),
		DueDate:        req.DueDate,
		PaymentDate:    req.PaymentDate,
		PaymentType:    strings.TrimSpace(req.PaymentType),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.paymentView(resp)})
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	resp, err := s.paymentSvc.GetByID(c.Request.Context(), paymentdomain.GetPaymentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.paymentView(resp)})
}

func (s *Server) ListSubscriptionPayments(c *gin.Context) {
	req := paymentdomain.ListBySubscriptionRequest{
		SubscriptionID: strings.TrimSpace(c.Param("id")),
	}

	var (
		resp []paymentdomain.Payment
		err  error
	)
	if unpaid, _ := strconv.ParseBool(c.Query("unpaid")); unpaid {
		resp, err = s.paymentSvc.ListUnpaidBySubscription(c.Request.Context(), req)
	} else {
		resp, err = s.paymentSvc.ListBySubscription(c.Request.Context(), req)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.paymentViews(resp)})
}

func (s *Server) ListRecentPayments(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.ListRecent(c.Request.Context(), paymentdomain.ListRecentRequest{Limit: limit})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.paymentViews(resp)})
}

func (s *Server) MarkPaymentPaid(c *gin.Context) {
	resp, err := s.paymentSvc.MarkPaid(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.paymentView(resp)})
}

func (s *Server) DeletePayment(c *gin.Context) {
	if err := s.paymentSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

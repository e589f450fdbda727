package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	reportingdomain "github.com/smallbiznis/subtrack/internal/reporting/domain"
)

func (s *Server) TotalPaidForSubscription(c *gin.Context) {
	total, err := s.reportingSvc.TotalPaidForSubscription(c.Request.Context(), reportingdomain.SubscriptionTotalRequest{
		SubscriptionID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total}})
}

func (s *Server) TotalUnpaidForSubscription(c *gin.Context) {
	total, err := s.reportingSvc.TotalUnpaidForSubscription(c.Request.Context(), reportingdomain.SubscriptionTotalRequest{
		SubscriptionID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total}})
}

// TotalPaidForMonth expects the month path segment as YYYY-MM.
func (s *Server) TotalPaidForMonth(c *gin.Context) {
	period, err := time.Parse("2006-01", strings.TrimSpace(c.Param("month")))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	total, err := s.reportingSvc.TotalPaidForMonth(c.Request.Context(), reportingdomain.MonthTotalRequest{
		Year:  period.Year(),
		Month: period.Month(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total}})
}

func (s *Server) TotalPaidForYear(c *gin.Context) {
	year, err := strconv.Atoi(strings.TrimSpace(c.Param("year")))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	total, err := s.reportingSvc.TotalPaidForYear(c.Request.Context(), reportingdomain.YearTotalRequest{
		Year: year,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total}})
}

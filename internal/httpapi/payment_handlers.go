package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pram0n0/Travelog/internal/middleware"
	"github.com/Pram0n0/Travelog/internal/workflow"
)

type paymentRequest struct {
	To       string  `json:"to" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency"`
}

type resolvePaymentRequest struct {
	Action string `json:"action" binding:"required,oneof=confirm reject"`
}

func (s *Server) createPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	payment, err := s.Payments.CreatePayment(
		c.Request.Context(),
		middleware.GetUsername(c),
		c.Param("groupId"),
		req.To, req.Amount, req.Currency,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (s *Server) resolvePayment(c *gin.Context) {
	var req resolvePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	payment, err := s.Payments.ResolvePayment(
		c.Request.Context(),
		middleware.GetUsername(c),
		c.Param("groupId"),
		c.Param("paymentId"),
		workflow.Action(req.Action),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (s *Server) sendReminder(c *gin.Context) {
	payment, err := s.Payments.SendReminder(
		c.Request.Context(),
		middleware.GetUsername(c),
		c.Param("groupId"),
		c.Param("paymentId"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reminder sent", "payment": payment})
}

func (s *Server) requestPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	request, err := s.Payments.RequestPayment(
		c.Request.Context(),
		middleware.GetUsername(c),
		c.Param("groupId"),
		req.To, req.Amount, req.Currency,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "payment request sent", "request": request})
}

func (s *Server) dismissRequest(c *gin.Context) {
	err := s.Payments.DismissRequest(
		c.Request.Context(),
		middleware.GetUsername(c),
		c.Param("groupId"),
		c.Param("requestId"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment request dismissed"})
}

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pram0n0/Travelog/internal/middleware"
	"github.com/Pram0n0/Travelog/internal/models"
	"github.com/Pram0n0/Travelog/internal/service"
)

type payerShare struct {
	Member string  `json:"member" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type expenseRequest struct {
	Description  string       `json:"description" binding:"required"`
	Amount       float64      `json:"amount"`
	Currency     string       `json:"currency"`
	PaidBy       string       `json:"paidBy"`
	Payers       []payerShare `json:"payers"`
	SplitType    string       `json:"splitType"`
	SplitBetween []string     `json:"splitBetween" binding:"required"`

	ExactAmounts map[string]float64 `json:"exactAmounts"`
	Percentages  map[string]float64 `json:"percentages"`
	Adjustments  map[string]float64 `json:"adjustments"`
	Shares       map[string]float64 `json:"shares"`
}

type expensePatchRequest struct {
	Description  *string      `json:"description"`
	Amount       *float64     `json:"amount"`
	Currency     *string      `json:"currency"`
	PaidBy       *string      `json:"paidBy"`
	Payers       []payerShare `json:"payers"`
	SplitType    *string      `json:"splitType"`
	SplitBetween []string     `json:"splitBetween"`

	ExactAmounts map[string]float64 `json:"exactAmounts"`
	Percentages  map[string]float64 `json:"percentages"`
	Adjustments  map[string]float64 `json:"adjustments"`
	Shares       map[string]float64 `json:"shares"`
}

func toPayerShares(payers []payerShare) []models.PayerShare {
	if payers == nil {
		return nil
	}
	shares := make([]models.PayerShare, len(payers))
	for i, p := range payers {
		shares[i] = models.PayerShare{Member: p.Member, Amount: p.Amount}
	}
	return shares
}

func (s *Server) addExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	expense, err := s.Expenses.AddExpense(
		c.Request.Context(),
		middleware.GetUsername(c),
		c.Param("groupId"),
		service.ExpenseInput{
			Description:  req.Description,
			Amount:       req.Amount,
			Currency:     req.Currency,
			PaidBy:       req.PaidBy,
			Payers:       toPayerShares(req.Payers),
			SplitType:    models.SplitType(req.SplitType),
			Participants: req.SplitBetween,
			Exact:        req.ExactAmounts,
			Percents:     req.Percentages,
			Adjustments:  req.Adjustments,
			Shares:       req.Shares,
		},
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (s *Server) editExpense(c *gin.Context) {
	var req expensePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := service.ExpensePatch{
		Description:  req.Description,
		Amount:       req.Amount,
		Currency:     req.Currency,
		PaidBy:       req.PaidBy,
		Payers:       toPayerShares(req.Payers),
		Participants: req.SplitBetween,
		Exact:        req.ExactAmounts,
		Percents:     req.Percentages,
		Adjustments:  req.Adjustments,
		Shares:       req.Shares,
	}
	if req.SplitType != nil {
		splitType := models.SplitType(*req.SplitType)
		patch.SplitType = &splitType
	}

	expense, err := s.Expenses.EditExpense(
		c.Request.Context(),
		middleware.GetUsername(c),
		c.Param("groupId"),
		c.Param("expenseId"),
		patch,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (s *Server) deleteExpense(c *gin.Context) {
	err := s.Expenses.DeleteExpense(
		c.Request.Context(),
		middleware.GetUsername(c),
		c.Param("groupId"),
		c.Param("expenseId"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense deleted"})
}

// Package httpapi is the transport boundary: gin handlers that bind
// JSON, call the services, and map the service error taxonomy onto HTTP
// status codes. No domain rules live here.
package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Pram0n0/Travelog/internal/auth"
	"github.com/Pram0n0/Travelog/internal/middleware"
	"github.com/Pram0n0/Travelog/internal/service"
)

// Server bundles the handlers' dependencies.
type Server struct {
	Groups        *service.GroupService
	Expenses      *service.ExpenseService
	Payments      *service.PaymentService
	Authenticator *auth.PasswordAuthenticator
	Tokens        *auth.JWTManager
}

// NewRouter builds the gin engine with the full middleware chain and
// route table.
func NewRouter(s *Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logging())
	router.Use(middleware.Metrics())
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", s.register)
		authRoutes.POST("/login", s.login)
	}

	groups := api.Group("/groups", middleware.RequireAuth(s.Tokens))
	{
		groups.GET("", s.listGroups)
		groups.POST("", s.createGroup)
		groups.POST("/join", s.joinGroup)
		groups.GET("/:groupId", s.getGroup)
		groups.POST("/:groupId/leave", s.leaveGroup)
		groups.GET("/:groupId/balances", s.getBalances)
		groups.GET("/:groupId/settlements", s.getSettlementPlan)

		groups.POST("/:groupId/expenses", s.addExpense)
		groups.PUT("/:groupId/expenses/:expenseId", s.editExpense)
		groups.DELETE("/:groupId/expenses/:expenseId", s.deleteExpense)

		groups.POST("/:groupId/payments", s.createPayment)
		groups.PUT("/:groupId/payments/:paymentId", s.resolvePayment)
		groups.POST("/:groupId/payments/:paymentId/remind", s.sendReminder)

		groups.POST("/:groupId/payment-requests", s.requestPayment)
		groups.DELETE("/:groupId/payment-requests/:requestId", s.dismissRequest)
	}

	return router
}

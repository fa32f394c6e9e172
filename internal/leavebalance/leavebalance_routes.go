package leavebalance

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devadmin007/employee-management/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
	logger *zap.Logger,
) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	balances.Use(middleware.ContextLogger(logger))
	{
		balances.GET("/me",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "leave_balance", "read"),
			handler.GetMine,
		)

		balances.GET("/:employee_id",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "leave_balance", "read_any"),
			handler.GetByEmployee,
		)
	}
}

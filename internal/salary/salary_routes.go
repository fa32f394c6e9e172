package salary

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
	salaries := r.Group("/salaries")
	salaries.Use(middleware.AuthMiddleware())
	salaries.Use(middleware.ContextLogger(logger))
	{
		salaries.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "salary", "read"),
			handler.List,
		)

		salaries.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "salary", "read"),
			handler.GetById,
		)

		salaries.GET("/:id/payslip",
			middleware.RateLimitByUser(1, 5),
			middleware.Authorize(enforcer, "salary", "read"),
			handler.Payslip,
		)

		salaries.POST("/generate",
			middleware.RateLimitByUser(0.05, 1),
			middleware.Authorize(enforcer, "salary", "generate"),
			handler.Generate,
		)
	}
}

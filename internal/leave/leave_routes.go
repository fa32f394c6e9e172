package leave

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/devadmin007/employee-management/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.Authorize(enforcer, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "leave", "read"),
			handler.GetAll,
		)

		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "leave", "read"),
			handler.GetById,
		)

		leaves.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "leave", "update"),
			handler.Update,
		)

		leaves.PATCH("/:id/decision",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "leave", "approve"),
			handler.Decide,
		)

		leaves.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 1),
			middleware.Authorize(enforcer, "leave", "delete"),
			handler.Delete,
		)
	}
}

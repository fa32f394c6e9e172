package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/devadmin007/employee-management/internal/employee"
	"github.com/devadmin007/employee-management/internal/leave"
	"github.com/devadmin007/employee-management/internal/leavebalance"
	"github.com/devadmin007/employee-management/internal/messaging/kafka"
	"github.com/devadmin007/employee-management/internal/rbac"
	"github.com/devadmin007/employee-management/internal/salary"
	"github.com/devadmin007/employee-management/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	employeeRepo := employee.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	salaryRepo := salary.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	balanceService := leavebalance.NewService(db, balanceRepo, logger)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, balanceService, logger)
	salaryGenerator := salary.NewGenerator(db, salaryRepo, employeeRepo, balanceRepo, counterRepo, outboxRepo, logger)
	salaryService := salary.NewService(salaryRepo, salaryGenerator, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	balanceHandler := leavebalance.NewHandler(balanceService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	salaryHandler := salary.NewHandler(salaryService, rdb, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, enforcer, logger)
		leavebalance.RegisterRoutes(api, balanceHandler, enforcer, logger)
		leave.RegisterRoutes(api, leaveHandler, enforcer, rdb, logger)
		salary.RegisterRoutes(api, salaryHandler, enforcer, logger)
	}

	return nil
}

package salary

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/devadmin007/employee-management/internal/domain"
	"github.com/devadmin007/employee-management/internal/shared/apperror"
	"github.com/devadmin007/employee-management/internal/shared/response"
)

const listCacheTTL = 5 * time.Minute

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("salary.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("salary request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

type listEnvelope struct {
	Data []SalaryResponse        `json:"data"`
	Meta response.PaginationMeta `json:"meta"`
}

func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := ListSalaryFilter{
		EmployeeID: c.Query("employee_id"),
		Month:      c.Query("month"),
	}
	filter.Year, _ = strconv.Atoi(c.Query("year"))
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}

	// Employees only ever see their own payslips.
	if c.GetString("role") == domain.RoleEmployee {
		filter.EmployeeID = c.GetString("employee_id")
	}

	cacheKey := fmt.Sprintf("salaries:%s:%s:%d:%d:%d",
		filter.EmployeeID, filter.Month, filter.Year, filter.Page, filter.PageSize)

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var envelope listEnvelope
			if json.Unmarshal([]byte(cached), &envelope) == nil {
				response.Success(c, http.StatusOK, envelope.Data, &envelope.Meta)
				return
			}
		}
	}

	resp, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, filter.Page, filter.PageSize)

	if h.rdb != nil {
		if payload, err := json.Marshal(listEnvelope{Data: resp, Meta: meta}); err == nil {
			h.rdb.Set(ctx, cacheKey, payload, listCacheTTL)
		}
	}

	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http get salary by id", zap.String("salary_id", id))

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Generate triggers the monthly batch on demand, outside the cron schedule.
func (h *Handler) Generate(c *gin.Context) {
	h.logger.Debug("http generate salaries", zap.String("actor_id", c.GetString("employee_id")))

	summary, err := h.service.Generate(c.Request.Context(), time.Now())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) Payslip(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http download payslip", zap.String("salary_id", id))

	pdf, err := h.service.RenderPayslip(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

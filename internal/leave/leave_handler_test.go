package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/devadmin007/employee-management/internal/domain"
	"github.com/devadmin007/employee-management/internal/leave"
	leaveerrors "github.com/devadmin007/employee-management/internal/leave/errors"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn func(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.CreateLeaveResponse, error)
	getAllFn func(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, int64, error)
	getByID  func(ctx context.Context, id string) (leave.LeaveResponse, error)
	updateFn func(ctx context.Context, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error)
	decideFn func(ctx context.Context, id, target, actorID string) (leave.LeaveResponse, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeLeaveService) Create(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.CreateLeaveResponse, error) {
	return f.createFn(ctx, employeeID, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, int64, error) {
	return f.getAllFn(ctx, filter)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.getByID(ctx, id)
}
func (f *fakeLeaveService) Update(ctx context.Context, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	return f.updateFn(ctx, id, req)
}
func (f *fakeLeaveService) Decide(ctx context.Context, id, target, actorID string) (leave.LeaveResponse, error) {
	return f.decideFn(ctx, id, target, actorID)
}
func (f *fakeLeaveService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func TestLeaveHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("uses employee claim and returns 201", func(t *testing.T) {
		employeeID := uuid.New().String()

		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, eid string, req leave.CreateLeaveRequest) (leave.CreateLeaveResponse, error) {
				assert.Equal(t, employeeID, eid)
				assert.Len(t, req.Entries, 2)
				assert.Equal(t, "moving house", req.Comment)
				return leave.CreateLeaveResponse{
					Requests: []leave.LeaveResponse{
						{ID: uuid.New().String(), EmployeeID: eid, Status: leave.StatusPending, TotalDays: 1},
						{ID: uuid.New().String(), EmployeeID: eid, Status: leave.StatusPending, TotalDays: 0.5},
					},
					TotalDays: 1.5,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"entries":[{"date":"2026-03-10","leave_type":"FULL_DAY"},{"date":"2026-03-11","leave_type":"FIRST_HALF"}],"comment":"moving house"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", employeeID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.CreateLeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got.Requests, 2)
		assert.Equal(t, 1.5, got.TotalDays)
	})

	t.Run("rejects unknown leave type at binding", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"entries":[{"date":"2026-03-10","leave_type":"SABBATICAL"}]}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("maps fully covered dates to 409", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, eid string, req leave.CreateLeaveRequest) (leave.CreateLeaveResponse, error) {
				return leave.CreateLeaveResponse{}, leaveerrors.ErrLeaveAlreadyExists
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"entries":[{"date":"2026-03-10","leave_type":"FULL_DAY"}]}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("employee role is pinned to its own requests", func(t *testing.T) {
		employeeID := uuid.New().String()

		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, int64, error) {
				assert.Equal(t, employeeID, filter.EmployeeID)
				assert.Equal(t, leave.StatusPending, filter.Status)
				return []leave.LeaveResponse{{ID: uuid.New().String()}}, 1, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet,
			"/leaves?status=PENDING&employee_id="+uuid.New().String(), nil)
		c.Set("employee_id", employeeID)
		c.Set("role", domain.RoleEmployee)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("hr keeps the requested filter", func(t *testing.T) {
		targetID := uuid.New().String()

		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, int64, error) {
				assert.Equal(t, targetID, filter.EmployeeID)
				return nil, 0, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?employee_id="+targetID, nil)
		c.Set("employee_id", uuid.New().String())
		c.Set("role", domain.RoleHR)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_Decide(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("passes target status and actor to the service", func(t *testing.T) {
		leaveID := uuid.New().String()
		actorID := uuid.New().String()

		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, id, target, actor string) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.Equal(t, leave.StatusApproved, target)
				assert.Equal(t, actorID, actor)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/"+leaveID+"/decision",
			strings.NewReader(`{"status":"APPROVED"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", actorID)

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leave.StatusApproved, got.Status)
	})

	t.Run("second decision surfaces as 409", func(t *testing.T) {
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, id, target, actor string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/x/decision",
			strings.NewReader(`{"status":"REJECT"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", uuid.New().String())

		h.Decide(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

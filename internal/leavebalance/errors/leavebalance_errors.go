package leavebalanceerrors

import (
	"net/http"

	"github.com/devadmin007/employee-management/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave balance not found for employee",
		http.StatusNotFound,
	)
	ErrVersionConflict = apperror.New(
		apperror.CodeConflict,
		"Leave balance was modified concurrently, please retry",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
)

package salaryerrors

import (
	"net/http"

	"github.com/devadmin007/employee-management/internal/shared/apperror"
)

var (
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary record not found",
		http.StatusNotFound,
	)
	ErrInvalidSalaryID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid salary record ID",
		http.StatusBadRequest,
	)
)

package leaveerrors

import (
	"net/http"

	"github.com/devadmin007/employee-management/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Leave already exists for the requested dates",
		http.StatusConflict,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeConflict,
		"Leave request has already been processed",
		http.StatusConflict,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Only pending leave requests can be updated",
		http.StatusBadRequest,
	)
	ErrNoValidDates = apperror.New(
		apperror.CodeInvalidInput,
		"No valid dates in request",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave request ID",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be APPROVED or REJECT",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)

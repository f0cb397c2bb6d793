package catalogerrors

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
)

var (
	ErrProjectNotFound = apperror.New(
		apperror.CodeNotFound,
		"Project not found",
		http.StatusNotFound,
	)
	ErrClientCodeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Client code not found",
		http.StatusNotFound,
	)
	ErrCostCenterNotFound = apperror.New(
		apperror.CodeNotFound,
		"Cost center not found",
		http.StatusNotFound,
	)
	ErrVehicleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Vehicle not found",
		http.StatusNotFound,
	)
	ErrDuplicateCode = apperror.New(
		apperror.CodeConflict,
		"Code already registered",
		http.StatusConflict,
	)
)

package holidayerrors

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
)

var (
	ErrHolidayNotFound = apperror.New(
		apperror.CodeNotFound,
		"Holiday not found",
		http.StatusNotFound,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid year",
		http.StatusBadRequest,
	)
	ErrImportFailed = apperror.New(
		apperror.CodeServiceUnavailable,
		"Holiday import failed",
		http.StatusBadGateway,
	)
)

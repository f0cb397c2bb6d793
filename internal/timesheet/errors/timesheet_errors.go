package timesheeterrors

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
)

var (
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Timesheet entry not found",
		http.StatusNotFound,
	)
	ErrOpenEntryExists = apperror.New(
		apperror.CodeConflict,
		"There is already an activity in progress. Check out before starting another",
		http.StatusConflict,
	)
	ErrNoOpenEntry = apperror.New(
		apperror.CodeInvalidState,
		"No activity in progress",
		http.StatusUnprocessableEntity,
	)
	ErrEditLimitReached = apperror.New(
		apperror.CodeInvalidState,
		"Edit limit reached. Submit an adjustment request instead",
		http.StatusUnprocessableEntity,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"You can only change your own entries",
		http.StatusForbidden,
	)
	ErrEntryStillOpen = apperror.New(
		apperror.CodeInvalidState,
		"The entry is still open",
		http.StatusUnprocessableEntity,
	)
	ErrCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A review comment is required",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"The adjustment reason is required",
		http.StatusBadRequest,
	)
	ErrNoAdjustmentPending = apperror.New(
		apperror.CodeInvalidState,
		"The entry has no pending adjustment request",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyReviewed = apperror.New(
		apperror.CodeInvalidState,
		"The entry was already reviewed",
		http.StatusUnprocessableEntity,
	)
)

package notificationerrors

import (
	"net/http"

	"go-timesheet/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Notification not found",
		http.StatusNotFound,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"You can only act on your own notifications",
		http.StatusForbidden,
	)
	ErrEmptyReply = apperror.New(
		apperror.CodeInvalidInput,
		"Reply comment cannot be empty",
		http.StatusBadRequest,
	)
	ErrInvalidPhone = apperror.New(
		apperror.CodeInvalidInput,
		"Phone number cannot be normalized for delivery",
		http.StatusBadRequest,
	)
)

package service

import (
	"net/http"

	commonerrors "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryAuth,
		http.StatusUnauthorized,
		"invalid login",
	)

	ErrUsernameTaken = commonerrors.ErrUsernameAlreadyExists

	ErrValidation = commonerrors.ErrValidation
)

package service

import (
	"net/http"

	commonerrors "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/errors"
)

var (
	ErrValidation = commonerrors.ErrValidation

	ErrUnknownVariant = commonerrors.NewDomainError(
		"UNKNOWN_VARIANT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"unknown record variant",
	)

	ErrMissingOwner = commonerrors.ErrNotAuthenticated
)

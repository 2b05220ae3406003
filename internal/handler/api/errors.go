package api

import (
	"context"
	"errors"
	"net/http"

	"StockCast/internal/domain/models"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
)

// toAppError maps use case errors onto HTTP errors.
func toAppError(err error, fallback string) *xhttp.AppError {
	var (
		appErr *xhttp.AppError
		verr   *models.ValidationError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, usecase.ErrInvalidSymbol):
		return xhttp.NewAppError("INVALID_SYMBOL", "symbol", "Invalid stock symbol format", http.StatusBadRequest).WithError(err)
	case errors.Is(err, usecase.ErrEmptyQuery):
		return xhttp.NewAppError("ERR_REQUIRED", "q", "Query parameter required", http.StatusBadRequest).WithError(err)
	case errors.As(err, &verr):
		return xhttp.NewAppError(string(verr.Kind), "historicalData", verr.Message, http.StatusBadRequest).
			WithParam("got", verr.Got).
			WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.NewAppError("ERR_TIMEOUT", "", "Upstream request timed out", http.StatusGatewayTimeout).WithError(err)
	default:
		return xhttp.InternalError(fallback).WithError(err)
	}
}

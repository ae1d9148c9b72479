package client

import (
	"net/http"

	apperrors "nestbook/pkg/errors"
)

// AsError translates a non-2xx response into the AppError the remote
// service rendered, preserving its code and details so gateway callers
// see the same failure the origin reported.
func (r *Response) AsError() error {
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		return nil
	}

	var body apperrors.ErrorResponse
	if err := r.DecodeJSON(&body); err != nil || body.Code == "" {
		return &apperrors.AppError{
			Code:       apperrors.CodeInternal,
			Message:    "upstream service returned " + http.StatusText(r.StatusCode),
			HTTPStatus: r.StatusCode,
		}
	}

	return &apperrors.AppError{
		Code:       body.Code,
		Message:    body.Message,
		HTTPStatus: r.StatusCode,
		Details:    body.Details,
	}
}

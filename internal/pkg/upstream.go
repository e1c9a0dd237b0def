package pkg

import (
	"errors"

	"github.com/wanshop/storefront/internal/apiclient"
	"github.com/wanshop/storefront/internal/domain"
)

// FromAPI translates a backend client error into a domain error so that
// handlers and pages map it to a status consistently. Errors that did not
// come from the client, including existing *domain.AppError values, pass
// through unchanged.
func FromAPI(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Kind {
	case apiclient.KindTimeout:
		return domain.NewAppError(domain.CodeUpstreamTimeout, domain.ErrUpstreamTimeout.Message, err)
	case apiclient.KindHTTPStatus:
		switch {
		case apiErr.StatusCode == 404:
			return domain.NewAppError(domain.CodeNotFound, domain.ErrNotFound.Message, err)
		case apiErr.StatusCode == 400 || apiErr.StatusCode == 422:
			return domain.NewAppError(domain.CodeValidation, "rejected by backend", err)
		}
	}
	return domain.NewAppError(domain.CodeUpstream, domain.ErrUpstream.Message, err)
}

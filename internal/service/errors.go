package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// errorCode maps domain errors onto connect codes.
func errorCode(err error) connect.Code {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, models.ErrForbidden):
		return connect.CodePermissionDenied
	case errors.Is(err, models.ErrInvalidState):
		return connect.CodeFailedPrecondition
	case errors.Is(err, models.ErrUnsupportedCurrency), errors.Is(err, models.ErrInvalidArgument):
		return connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrConflict):
		return connect.CodeAborted
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	default:
		return connect.CodeInternal
	}
}

// fail logs err and converts it to a connect error. Caller mistakes are
// logged at WARN, everything else at ERROR.
func fail(op string, err error, attrs ...any) error {
	code := errorCode(err)
	attrs = append(attrs, "code", code, "error", err)
	if code == connect.CodeInternal {
		slog.Error(op+" failed", attrs...)
	} else {
		slog.Warn(op+" failed", attrs...)
	}
	return connect.NewError(code, err)
}

// callerID returns the authenticated member, or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	id := middleware.GetMemberID(ctx)
	if id == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("no authenticated member"))
	}
	return id, nil
}

func required(field, value string) error {
	if value == "" {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s required", field))
	}
	return nil
}

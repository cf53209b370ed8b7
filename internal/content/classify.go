package content

import (
	"context"
	"errors"

	"portfolio-backend/internal/errs"
	"portfolio-backend/internal/ratelimit"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
)

type codedError interface {
	HasErrorCode(int) bool
}

// Classify maps any failure from the engine or the store onto the taxonomy.
func Classify(err error) *errs.Error {
	if err == nil {
		return nil
	}

	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var exceeded *ratelimit.ExceededError
	if errors.As(err, &exceeded) {
		e := errs.RateLimited(string(exceeded.Op), exceeded.WaitSeconds())
		e.Err = err
		return e
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return errs.Wrap(errs.KindNotFound, errs.MsgNotFound, err)
	}

	var coded codedError
	if errors.As(err, &coded) {
		switch {
		case coded.HasErrorCode(codeUnauthorized):
			return errs.Wrap(errs.KindPermissionDenied, errs.MsgPermissionDenied, err)
		case coded.HasErrorCode(codeAuthenticationFailed):
			return errs.Wrap(errs.KindUnauthenticated, errs.MsgServerAuth, err)
		}
	}

	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mongo.ErrClientDisconnected) {
		return errs.Wrap(errs.KindUnavailable, errs.MsgUnavailable, err)
	}

	return errs.Wrap(errs.KindUnknown, errs.MsgUnknown, err)
}

package cli

import (
	"context"
	stderrors "errors"

	"github.com/vytor/tanki/internal/errors"
	"github.com/vytor/tanki/internal/logger"
)

// handleError prints err for the user and logs it at a level matching its
// code.
func (a *App) handleError(ctx context.Context, err error) {
	log := logger.FromContext(ctx)

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewInternalError(err)
	}

	switch appErr.Code {
	case errors.ErrCodeNoSelection, errors.ErrCodeNoDeck:
		log.Debug("no deck: %v", appErr)
		a.println("No deck selected.")
	case errors.ErrCodeInternal:
		log.Error("command failed: %v", err)
		a.println("Error: " + err.Error())
	case errors.ErrCodeNotFound, errors.ErrCodeValidation:
		log.Warn("client error: %v", appErr)
		a.println(capitalize(appErr.Message) + ".")
	default:
		log.Debug("error: %v", appErr)
		a.println(capitalize(appErr.Message) + ".")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/jpmelanson/turnbase/internal/api/apierr"
	"github.com/jpmelanson/turnbase/internal/middleware"
)

// Recovery creates panic recovery middleware that answers with the API's
// JSON error shape
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

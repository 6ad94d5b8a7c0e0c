package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler writes the response after a handler has panicked
type PanicHandler func(w http.ResponseWriter, r *http.Request, recovered any)

// Recovery creates panic recovery middleware.
// A nil handler falls back to DefaultPanicHandler.
func Recovery(logger *slog.Logger, handler PanicHandler) func(http.Handler) http.Handler {
	if handler == nil {
		handler = DefaultPanicHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				logger.LogAttrs(r.Context(), slog.LevelError, "panic recovered",
					slog.String("panic", fmt.Sprint(recovered)),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)

				handler(w, r, recovered)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultPanicHandler returns a plain 500 Internal Server Error
func DefaultPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

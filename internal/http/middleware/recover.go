package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/wellbeing-api/internal/utils/response"
)

// Recover turns a handler panic into a 500 instead of a dropped connection.
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					log.Error("panic in handler",
						slog.String("panic", fmt.Sprint(v)),
						slog.String("path", r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())))
					response.WriteJSON(w, http.StatusInternalServerError,
						response.Message("internal server error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

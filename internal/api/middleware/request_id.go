package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

// RequestID tags each request with an id and puts a request-scoped
// logger into the context for downstream log.Ctx calls.
func RequestID(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		reqLogger := log.With().
			Str("request_id", id).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		ctx := reqLogger.WithContext(r.Context())

		next(w, r.WithContext(ctx), ps)
	}
}

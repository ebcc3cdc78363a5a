package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"snipr/internal/api/handlers"
	"snipr/internal/api/middleware"
)

type Dependencies struct {
	ShortenHandler  *handlers.ShortenHandler
	RedirectHandler *handlers.RedirectHandler
	HealthHandler   *handlers.HealthHandler
	RateLimiter     *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()
	rl := deps.RateLimiter

	// Shortening API
	router.POST("/api/v1/urls",
		chain(deps.ShortenHandler.Shorten, middleware.RequestID, rl.Limit("shorten")))

	// Alias inspection
	router.GET("/preview/:alias",
		chain(deps.RedirectHandler.Preview, middleware.RequestID))
	router.GET("/qr/:alias",
		chain(deps.RedirectHandler.QRCode, middleware.RequestID))

	router.GET("/health", deps.HealthHandler.Check)

	// Root-level aliases are served from the fallback: a "/:alias"
	// route would conflict with the static routes above.
	redirect := chain(
		func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			deps.RedirectHandler.Redirect(w, r)
		},
		middleware.RequestID, rl.Limit("redirect"))
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		redirect(w, r, nil)
	})

	return router
}

// Helper function to chain middlewares
func chain(handler httprouter.Handle, middlewares ...middleware.Middleware) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	searchMiddleware := standardMiddleware.Append(app.rateLimit("search", app.cfg.RateLimit.Search))
	// Counts cost about as much as the query itself; they get the
	// strictest limit.
	countMiddleware := standardMiddleware.Append(app.rateLimit("count", app.cfg.RateLimit.Count))
	suggestMiddleware := standardMiddleware.Append(app.rateLimit("suggest", app.cfg.RateLimit.Suggest))

	mux := pat.New()

	mux.Get("/api/search", searchMiddleware.ThenFunc(app.searchHandler.Search))
	mux.Get("/api/search/count", countMiddleware.ThenFunc(app.searchHandler.Count))
	mux.Get("/api/search/suggestions", suggestMiddleware.ThenFunc(app.suggestionHandler.Suggestions))
	mux.Get("/api/search/health", standardMiddleware.ThenFunc(app.healthHandler.Health))

	return mux
}

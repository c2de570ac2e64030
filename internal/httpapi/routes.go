package httpapi

import "net/http"

// BuildRoutes registers every endpoint on mux and returns a handler that
// applies the origin check and CORS headers in front of it.
func (app *Application) BuildRoutes(mux *http.ServeMux) *http.ServeMux {
	finalMux := http.NewServeMux()

	mux.HandleFunc("/healthz", app.healthz)
	mux.HandleFunc("/api/test", app.testCors)
	mux.HandleFunc("/api/analyze", app.analyze)
	mux.HandleFunc("/api/name", app.colorName)

	finalMux.Handle("/", app.wrapMuxWithCorsAndOrigins(mux))

	return finalMux
}

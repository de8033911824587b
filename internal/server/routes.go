package server

import "net/http"

type Routes struct {
	WebhookPath string
	// Webhook must reject non-POST requests itself, so its route is registered
	// for every method.
	Webhook http.Handler
	Events  http.Handler
	Health  http.Handler
}

func NewMux(routes Routes) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(routes.WebhookPath, routes.Webhook)
	mux.Handle("GET /events", routes.Events)
	mux.Handle("GET /health", routes.Health)
	return mux
}

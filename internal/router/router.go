package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httphandler "notification-service/internal/handler/http"
	wshandler "notification-service/internal/handler/ws"
)

// SetupRoutes configures the HTTP routes for the notification service
func SetupRoutes(
	r chi.Router,
	nh *httphandler.NotificationHandler,
	th *httphandler.TemplateHandler,
	ph *httphandler.PreferenceHandler,
	wsh *wshandler.WSHandler,
) chi.Router {
	// ---- Global Middleware ----
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Post("/send", nh.SendNotification)
		r.Post("/{id}/retry", nh.RetryNotification)
		r.Get("/{id}", nh.GetNotification)
		r.Get("/user/{userId}", nh.ListByUser)
		r.Get("/user/{userId}/unread", nh.ListUnreadByUser)
		r.Get("/status/{status}", nh.ListByStatus)
		r.Patch("/{id}/read", nh.MarkAsRead)
		r.Patch("/{id}/delivered", nh.MarkAsDelivered)

		// WebSocket endpoint for in-app pushes
		r.Get("/ws", wsh.HandleNotifications)
	})

	r.Route("/api/v1/templates", func(r chi.Router) {
		r.Post("/", th.CreateTemplate)
		r.Get("/", th.ListTemplates)
		r.Get("/{code}", th.GetTemplate)
		r.Put("/{code}", th.UpdateTemplate)
		r.Put("/{code}/activate", th.ActivateTemplate)
		r.Put("/{code}/deactivate", th.DeactivateTemplate)
	})

	r.Route("/api/v1/preferences", func(r chi.Router) {
		r.Get("/{userId}", ph.GetPreference)
		r.Post("/{userId}", ph.UpsertPreference)
		r.Get("/{userId}/channels", ph.ResolveChannels)
	})

	return r
}

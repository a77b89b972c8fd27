package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recshare/internal/access"
	"recshare/internal/handlers/api"
	"recshare/internal/store"
)

// RegisterRoutes registers all application routes against the store.
func (s *Server) RegisterRoutes(st store.Store) {
	engine := access.New(st)

	viewerHandler := api.NewViewerHandler(st)
	meetingHandler := api.NewMeetingHandler(st)
	recordingHandler := api.NewRecordingHandler(st)
	accessHandler := api.NewAccessHandler(engine)
	healthHandler := api.NewHealthHandler(st)

	// Viewer registry
	s.App.Post("/api/viewers", viewerHandler.Register)
	s.App.Get("/api/viewers", viewerHandler.List)

	// Meetings
	s.App.Post("/api/meetings", meetingHandler.Create)
	s.App.Get("/api/meetings", meetingHandler.List)
	s.App.Get("/api/meetings/:id", meetingHandler.Get)

	// Recordings - URL-keyed operations take the url as a query parameter
	s.App.Post("/api/recordings", recordingHandler.Create)
	s.App.Get("/api/recordings", recordingHandler.List)
	s.App.Get("/api/recordings/find", recordingHandler.Find)
	s.App.Delete("/api/recordings", recordingHandler.Delete)
	s.App.Get("/api/recordings/viewers", recordingHandler.SharedViewers)

	// Sharing & access
	s.App.Post("/api/recordings/share", accessHandler.Share)
	s.App.Get("/api/recordings/access", accessHandler.CheckAccess)

	// Operational endpoints
	s.App.Get("/healthz", healthHandler.Healthz)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

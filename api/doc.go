// Package api provides the HTTP API layer for PaperRead.
// It uses the Huma framework for OpenAPI documentation, request validation
// and a uniform handler signature.
//
// # Architecture
//
// - server.go: Huma API configuration and the chi router
// - handlers/: reading sessions, annotations, read-aloud, audio, catalog and dictation
// - dto/: request and response bodies plus domain mappers
// - middleware/: request logging and per-IP rate limiting
//
// # Sessions
//
// A client opens a session with POST /sessions and receives a session view:
// the displayed page, its sentence spans, applied annotation colors, visible
// translations and the read-aloud status. Every later operation on the
// session returns the updated view, so the client only renders what it is
// given.
//
//	{
//	    "session_id": "7f3c...",
//	    "page": {"current_page": 1, "total_pages": 3, "paragraphs": ["..."]},
//	    "mode": "highlight",
//	    "word_colors": {"data": "#28a745"},
//	    "playback": {"state": "idle", "cursor": -1, "highlighted": -1}
//	}
//
// Synthesized speech is downloaded from /audio/{utterance_id} using the
// utterance_id reported in the playback status.
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:    logger,
//	    RateLimit: 120,
//	    RateBurst: 20,
//	})
//
//	sessions := handlers.NewSessionHandler(registry)
//	sessions.RegisterRoutes(humaAPI)
//	sessions.RegisterAnnotationRoutes(humaAPI)
//	sessions.RegisterReadAloudRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format:
//
//	{
//	    "status": 409,
//	    "title": "Conflict",
//	    "detail": "pause/resume not allowed in state idle"
//	}
//
// Not found maps to 404, validation to 400, state conflicts and superseded
// page loads to 409, unavailable features to 501 and backend failures to 503.
package api

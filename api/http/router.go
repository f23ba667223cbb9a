package http

import (
	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/gofiber/swagger"

	"github.com/resumatch/backend/api/http/handlers"
)

// Middleware bundles the auth variants the routes need.
type Middleware struct {
	RequireAuth  fiber.Handler
	OptionalAuth fiber.Handler
}

// Register wires all HTTP routes onto given Fiber app. The matching routes
// live at the root with trailing slashes; existing clients depend on the
// exact paths, so no versioned prefix.
func Register(app *fiber.App, mw Middleware, resume *handlers.ResumeHandler, jobs *handlers.JobsHandler, alerts *handlers.AlertHandler, health *handlers.HealthHandler) {
	// Health and readiness endpoints for probes/monitoring
	app.Get("/health", health.Health)
	app.Get("/ready", health.Ready)

	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	app.Post("/upload-resume/", mw.OptionalAuth, resume.Upload)
	app.Post("/fetch-linkedin-jobs/", mw.RequireAuth, jobs.FetchLinkedIn)
	app.Get("/fetch-jobs/", jobs.FetchJobs)
	app.Post("/test-send-job-alert/", mw.RequireAuth, alerts.TestSend)
	app.Post("/update-alert-preferences/", mw.RequireAuth, alerts.UpdatePreferences)
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saipavansp/incubez-talent-stories/api/controllers"
	"github.com/saipavansp/incubez-talent-stories/api/middleware"
	"github.com/saipavansp/incubez-talent-stories/internal/ingest"
	"github.com/saipavansp/incubez-talent-stories/pkg/config"
	"github.com/saipavansp/incubez-talent-stories/pkg/enums"
	"github.com/saipavansp/incubez-talent-stories/pkg/logger"
	pkgredis "github.com/saipavansp/incubez-talent-stories/pkg/redis"
)

// NewRouter wires the HTTP surface. idemStore may be nil when redis is
// not configured; the idempotency middleware then passes requests
// through untouched.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	svc controllers.SubmissionService,
	reader *ingest.Reader,
	idemStore pkgredis.IdempotencyStore,
	readiness map[string]controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.ClientURL),
	)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, cfg.Redis.IdempotencyTTL, logg))

		r.Route("/health", func(r chi.Router) {
			r.Get("/", controllers.Health(cfg))
			r.Get("/ready", controllers.HealthReady(logg, readiness))
		})

		r.Route("/founders", func(r chi.Router) {
			r.Post("/pitch", controllers.SubmitPitch(svc, reader, cfg.Upload, logg))
			r.Post("/upload-video", controllers.UploadVideo(svc, reader, cfg.Upload, enums.SubmissionKindFounder, logg))
			r.Get("/pitch/{id}", controllers.GetSubmission(svc, enums.SubmissionKindFounder, logg))
			r.Get("/pitches", controllers.ListSubmissions(svc, enums.SubmissionKindFounder, logg))
		})

		r.Route("/seekers", func(r chi.Router) {
			r.Post("/application", controllers.SubmitApplication(svc, reader, cfg.Upload, logg))
			r.Post("/upload-video", controllers.UploadVideo(svc, reader, cfg.Upload, enums.SubmissionKindSeeker, logg))
			r.Get("/application/{id}", controllers.GetSubmission(svc, enums.SubmissionKindSeeker, logg))
			r.Get("/applications", controllers.ListSubmissions(svc, enums.SubmissionKindSeeker, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Patch("/founders/{applicationId}/status", controllers.UpdateSubmissionStatus(svc, enums.SubmissionKindFounder, logg))
			r.Put("/founders/{applicationId}/status", controllers.UpdateSubmissionStatus(svc, enums.SubmissionKindFounder, logg))
			r.Patch("/seekers/{applicationId}/status", controllers.UpdateSubmissionStatus(svc, enums.SubmissionKindSeeker, logg))
			r.Put("/seekers/{applicationId}/status", controllers.UpdateSubmissionStatus(svc, enums.SubmissionKindSeeker, logg))
		})
	})

	return r
}

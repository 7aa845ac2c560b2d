package rest

import (
	"net/http"

	"hangout-backend/application/services"
	"hangout-backend/interfaces/http/rest/handlers"
	"hangout-backend/interfaces/http/rest/middleware"
	pkgerrors "hangout-backend/pkg/errors"
	"hangout-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	hangouts  *services.HangoutService
	series    *services.SeriesService
	ideaLists *services.IdeaListService
	invites   *services.InviteService

	authenticate func(http.Handler) http.Handler
	metrics      *observability.Metrics
	enableCORS   bool
	logger       *zap.Logger
}

// NewRouter creates a new router instance. The authenticate middleware is
// injected because the Lambda and server entrypoints resolve identity
// differently.
func NewRouter(
	hangouts *services.HangoutService,
	series *services.SeriesService,
	ideaLists *services.IdeaListService,
	invites *services.InviteService,
	authenticate func(http.Handler) http.Handler,
	metrics *observability.Metrics,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		hangouts:     hangouts,
		series:       series,
		ideaLists:    ideaLists,
		invites:      invites,
		authenticate: authenticate,
		metrics:      metrics,
		enableCORS:   enableCORS,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.hangouts.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	errorHandler := pkgerrors.NewErrorHandler(rt.logger, false)

	hangoutHandler := handlers.NewHangoutHandler(rt.hangouts, errorHandler, rt.logger)
	seriesHandler := handlers.NewSeriesHandler(rt.series, errorHandler, rt.logger)
	ideaListHandler := handlers.NewIdeaListHandler(rt.ideaLists, errorHandler, rt.logger)
	inviteHandler := handlers.NewInviteHandler(rt.invites, errorHandler, rt.logger)

	router.Route("/v1", func(r chi.Router) {
		r.Use(rt.authenticate)

		r.Route("/hangouts", func(r chi.Router) {
			r.Post("/", hangoutHandler.CreateHangout)
			r.Get("/{hangoutID}", hangoutHandler.GetHangout)
			r.Put("/{hangoutID}", hangoutHandler.UpdateHangout)
			r.Delete("/{hangoutID}", hangoutHandler.DeleteHangout)

			r.Post("/{hangoutID}/groups", hangoutHandler.AssociateGroup)
			r.Delete("/{hangoutID}/groups/{groupID}", hangoutHandler.DisassociateGroup)

			r.Get("/{hangoutID}/interest", hangoutHandler.ListInterestLevels)
			r.Put("/{hangoutID}/interest", hangoutHandler.SetInterestLevel)
			r.Delete("/{hangoutID}/interest", hangoutHandler.RemoveInterestLevel)

			r.Post("/{hangoutID}/series", seriesHandler.CreateSeries)
		})

		r.Route("/series", func(r chi.Router) {
			r.Get("/{seriesID}", seriesHandler.GetSeries)
			r.Post("/{seriesID}/parts", seriesHandler.AddPart)
			r.Delete("/{seriesID}/parts/{hangoutID}", seriesHandler.RemovePart)
		})

		r.Route("/groups/{groupID}", func(r chi.Router) {
			r.Get("/feed", hangoutHandler.ListGroupFeed)
			r.Get("/series", seriesHandler.ListGroupSeries)

			r.Route("/idea-lists", func(r chi.Router) {
				r.Post("/", ideaListHandler.CreateIdeaList)
				r.Get("/", ideaListHandler.ListIdeaLists)
				r.Get("/{listID}", ideaListHandler.GetIdeaList)
				r.Put("/{listID}", ideaListHandler.UpdateIdeaList)
				r.Delete("/{listID}", ideaListHandler.DeleteIdeaList)

				r.Post("/{listID}/ideas", ideaListHandler.AddIdea)
				r.Get("/{listID}/ideas", ideaListHandler.ListIdeas)
				r.Get("/{listID}/ideas/{ideaID}", ideaListHandler.GetIdea)
				r.Delete("/{listID}/ideas/{ideaID}", ideaListHandler.RemoveIdea)
			})

			r.Route("/invites", func(r chi.Router) {
				r.Post("/", inviteHandler.CreateInviteCode)
				r.Get("/", inviteHandler.ListGroupCodes)
				r.Get("/active", inviteHandler.GetActiveCode)
			})
		})

		r.Route("/invites", func(r chi.Router) {
			r.Post("/redeem", inviteHandler.RedeemCode)
			r.Post("/{inviteCodeID}/deactivate", inviteHandler.DeactivateCode)
			r.Delete("/{inviteCodeID}", inviteHandler.DeleteCode)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

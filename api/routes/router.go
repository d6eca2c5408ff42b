package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurumjoyeria/aurum-backend/api/controllers"
	"github.com/aurumjoyeria/aurum-backend/api/middleware"
	"github.com/aurumjoyeria/aurum-backend/internal/auth"
	"github.com/aurumjoyeria/aurum-backend/internal/carousel"
	"github.com/aurumjoyeria/aurum-backend/internal/products"
	"github.com/aurumjoyeria/aurum-backend/pkg/auth/session"
	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	"github.com/aurumjoyeria/aurum-backend/pkg/db"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
	"github.com/aurumjoyeria/aurum-backend/pkg/metrics"
	redisclient "github.com/aurumjoyeria/aurum-backend/pkg/redis"
	"github.com/aurumjoyeria/aurum-backend/pkg/storage/gcs"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redisclient.Client
	Storage      gcs.Pinger
	Sessions     *session.Manager
	HTTPMetrics  *metrics.HTTPMetrics
	AuthService  *auth.Service
	Products     *products.Service
	Carousel     *carousel.Service
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	// A nil *redisclient.Client must stay nil once it crosses into an
	// interface, otherwise the nil checks downstream stop working.
	var redisP redisclient.Pinger
	if deps.Redis != nil {
		redisP = deps.Redis
	}
	authLimit := func(name string) func(http.Handler) http.Handler {
		if deps.Redis == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.AuthRateLimit(name, cfg.AuthRateLimit, deps.Redis, logg)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.Logging(logg),
		middleware.Identity(*cfg, deps.Sessions, deps.AuthService, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisP, deps.Storage))
	})

	r.Method(http.MethodGet, "/metrics", deps.HTTPMetrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.With(authLimit("login")).
			Post("/login", controllers.AuthLogin(deps.AuthService, cfg.Session, logg))
		r.With(authLimit("register")).
			Post("/register", controllers.AuthRegister(deps.AuthService, cfg.Session, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.Session, logg))

		r.Get("/verify-email", controllers.VerifyEmailLink(deps.AuthService, cfg.App, logg))
		r.With(authLimit("password-reset")).
			Post("/request-password-reset", controllers.RequestPasswordReset(deps.AuthService, logg))
		r.Post("/reset-password", controllers.ResetPassword(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(logg))

			r.Get("/me", controllers.ProfileGet(deps.AuthService, logg))
			r.Put("/me", controllers.ProfileUpdate(deps.AuthService, logg))
			r.Post("/verify-email-code", controllers.VerifyEmailCode(deps.AuthService, logg))
			r.Post("/resend-verification", controllers.ResendVerification(deps.AuthService, logg))
			r.Post("/change-password", controllers.ChangePassword(deps.AuthService, logg))
			r.Post("/request-email-change", controllers.RequestEmailChange(deps.AuthService, logg))
			r.Post("/verify-email-change", controllers.VerifyEmailChange(deps.AuthService, logg))
			r.Delete("/delete-account", controllers.DeleteAccount(deps.AuthService, cfg.Session, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Get("/users", controllers.AdminListUsers(deps.AuthService, logg))
			r.Put("/users/{userId}/promote", controllers.AdminSetUserRole(deps.AuthService, logg))
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(deps.Products, logg))
		r.Get("/categories", controllers.ProductCategories(deps.Products, logg))
		r.Get("/{productId}", controllers.ProductGet(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Post("/", controllers.ProductCreate(deps.Products, cfg.Media, logg))
			r.Put("/{productId}", controllers.ProductUpdate(deps.Products, cfg.Media, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.Products, logg))
		})
	})

	r.Route("/carousel", func(r chi.Router) {
		r.Get("/", controllers.CarouselList(deps.Carousel, logg))
		r.Get("/{itemId}", controllers.CarouselGet(deps.Carousel, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Post("/", controllers.CarouselCreate(deps.Carousel, cfg.Media, logg))
			r.Put("/{itemId}", controllers.CarouselUpdate(deps.Carousel, cfg.Media, logg))
			r.Delete("/{itemId}", controllers.CarouselDelete(deps.Carousel, logg))
		})
	})

	return r
}

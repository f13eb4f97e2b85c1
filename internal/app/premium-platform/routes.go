package premiumplatform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	accountremove "github.com/antonligaev/premium-platform/internal/http/handlers/account/remove"
	accountupdate "github.com/antonligaev/premium-platform/internal/http/handlers/account/update"
	articlebrowse "github.com/antonligaev/premium-platform/internal/http/handlers/article/browse"
	articlecreate "github.com/antonligaev/premium-platform/internal/http/handlers/article/create"
	articlelist "github.com/antonligaev/premium-platform/internal/http/handlers/article/list"
	articleremove "github.com/antonligaev/premium-platform/internal/http/handlers/article/remove"
	articleupdate "github.com/antonligaev/premium-platform/internal/http/handlers/article/update"
	"github.com/antonligaev/premium-platform/internal/http/handlers/auth/login"
	"github.com/antonligaev/premium-platform/internal/http/handlers/auth/register"
	"github.com/antonligaev/premium-platform/internal/http/handlers/client/dashboard"
	"github.com/antonligaev/premium-platform/internal/http/handlers/client/subscribeplan"
	"github.com/antonligaev/premium-platform/internal/http/handlers/health"
	subcancel "github.com/antonligaev/premium-platform/internal/http/handlers/subscription/cancel"
	subcreate "github.com/antonligaev/premium-platform/internal/http/handlers/subscription/create"
	subupdateconfirm "github.com/antonligaev/premium-platform/internal/http/handlers/subscription/updateconfirm"
	subupdateinit "github.com/antonligaev/premium-platform/internal/http/handlers/subscription/updateinit"
	"github.com/antonligaev/premium-platform/internal/http/middlewarectx"

	"github.com/antonligaev/premium-platform/internal/config"
	"github.com/antonligaev/premium-platform/internal/lib/jwt"
	"github.com/antonligaev/premium-platform/internal/models"
	articleservice "github.com/antonligaev/premium-platform/internal/services/article"
	authservice "github.com/antonligaev/premium-platform/internal/services/auth"
	subservice "github.com/antonligaev/premium-platform/internal/services/subscription"
	"github.com/antonligaev/premium-platform/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	db *repository.Storage, jwtMaker jwt.Maker,
	authService *authservice.AuthService,
	subscriptionService *subservice.Service,
	articleService *articleservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки. Авторизованный пользователь
		// перенаправляется на свою панель.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AnonymousOnly(jwtMaker, logger))
			r.Post("/register", register.New(logger, authService).ServeHTTP)
			r.Post("/login", login.New(logger, authService).ServeHTTP)
		})

		// Поверхность читателя
		r.Route("/client", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RequireRole(models.RoleClient, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/dashboard", dashboard.New(logger, subscriptionService).ServeHTTP)
			r.Get("/browse-articles", articlebrowse.New(logger, articleService).ServeHTTP)
			r.Get("/subscribe-plan", subscribeplan.New(logger, subscriptionService).ServeHTTP)

			r.Post("/create-subscription/{providerSubID}/{planCode}",
				subcreate.New(logger, subscriptionService).ServeHTTP)
			r.With(middlewarectx.OwnSubscription(db, logger)).
				Post("/cancel-subscription/{id}", subcancel.New(logger, subscriptionService).ServeHTTP)
			r.With(middlewarectx.OwnSubscription(db, logger)).
				Post("/update-subscription/{id}",
					subupdateinit.New(logger, subscriptionService, cfg.ReturnURL, cfg.CancelURL).ServeHTTP)
			r.Get("/update-subscription-confirmed",
				subupdateconfirm.New(logger, subscriptionService).ServeHTTP)
		})

		// Поверхность автора
		r.Route("/writer", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RequireRole(models.RoleWriter, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/my-articles", articlelist.New(logger, articleService).ServeHTTP)
			r.Post("/articles", articlecreate.New(logger, articleService).ServeHTTP)
			r.With(middlewarectx.OwnArticle(db, logger)).
				Put("/articles/{id}", articleupdate.New(logger, articleService).ServeHTTP)
			r.With(middlewarectx.OwnArticle(db, logger)).
				Delete("/articles/{id}", articleremove.New(logger, articleService).ServeHTTP)
		})

		// Аккаунт доступен обеим ролям
		r.Route("/account", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Patch("/", accountupdate.New(logger, authService).ServeHTTP)
			r.Delete("/", accountremove.New(logger, authService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

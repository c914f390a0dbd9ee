package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopnest/shopnest-be/internal/api/handlers"
	"github.com/shopnest/shopnest-be/internal/auth"
	"github.com/shopnest/shopnest-be/internal/config"
	"github.com/shopnest/shopnest-be/internal/services"
	"github.com/shopnest/shopnest-be/internal/storage"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenManager,
	userService services.UserServiceProvider,
	shopService services.ShopServiceProvider,
	productService services.ProductServiceProvider,
	categoryService services.CategoryServiceProvider,
	orderService services.OrderServiceProvider,
	uploader storage.Uploader,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS must allow credentials so the token cookies round-trip
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, uploader, tokens, cfg.IsProduction())
	shopHandler := handlers.NewShopHandler(shopService, uploader)
	productHandler := handlers.NewProductHandler(productService, uploader)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	orderHandler := handlers.NewOrderHandler(orderService)

	requireAuth := tokens.Middleware()

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health-check", handlers.HealthCheck)

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			// Refresh authenticates with the refresh token itself, so it
			// stays outside the access token middleware.
			r.Post("/refresh-token", userHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/logout", userHandler.Logout)
				r.Get("/current", userHandler.GetCurrent)
				r.Put("/current", userHandler.UpdateCurrent)
				r.Put("/avatar", userHandler.UpdateAvatar)
				r.Put("/change-password", userHandler.ChangePassword)
			})
		})

		r.Route("/shops", func(r chi.Router) {
			r.Get("/", shopHandler.GetAll)
			r.With(requireAuth).Post("/", shopHandler.Create)
			r.With(requireAuth).Get("/user", shopHandler.GetUserShops)
			r.Route("/{shopId}", func(r chi.Router) {
				r.Get("/", shopHandler.Get)
				r.With(requireAuth).Put("/", shopHandler.Update)
				r.With(requireAuth).Delete("/", shopHandler.Delete)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.GetAll)
			r.With(requireAuth).Post("/", productHandler.Create)
			r.Get("/shop/{shopId}", productHandler.GetByShop)
			r.Route("/{productId}", func(r chi.Router) {
				r.Get("/", productHandler.Get)
				r.With(requireAuth).Put("/", productHandler.Update)
				r.With(requireAuth).Delete("/", productHandler.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.GetAll)
			r.Post("/", categoryHandler.Create)
			r.Route("/{categoryId}", func(r chi.Router) {
				r.Get("/", categoryHandler.Get)
				r.Put("/", categoryHandler.Update)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.GetAll)
			r.Post("/", orderHandler.Create)
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", orderHandler.Get)
				r.Put("/", orderHandler.Update)
				r.Delete("/", orderHandler.Delete)
			})
		})
	})

	return r
}

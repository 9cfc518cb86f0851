package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tsadityaa/BrowseCart/internal/config"
	"github.com/tsadityaa/BrowseCart/internal/handlers"
	"github.com/tsadityaa/BrowseCart/internal/middleware"
	"github.com/tsadityaa/BrowseCart/internal/repository"
	"github.com/tsadityaa/BrowseCart/internal/services"
)

type Dependencies struct {
	Config   config.Config
	Shops    repository.ShopRepository
	Users    repository.UserRepository
	Password services.PasswordEncoder
	Logger   zerolog.Logger
}

func SetupRouter(deps Dependencies) http.Handler {
	cfg, logger := deps.Config, deps.Logger

	shopService := services.NewShopService(deps.Shops, logger)
	userService := services.NewUserService(deps.Users, deps.Password, logger)
	authService := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, logger)

	shopHandler := handlers.NewShopHandler(shopService, logger)
	authHandler := handlers.NewAuthHandler(userService, authService, logger)
	healthHandler := handlers.NewHealthHandler(shopService, cfg.StoreBackend, logger)

	r := mux.NewRouter()
	r.NotFoundHandler = handlers.NotFound()
	r.MethodNotAllowedHandler = handlers.MethodNotAllowed()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(rateLimiter.Middleware())
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.MaxBodySize(cfg.MaxBodyBytes))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequestValidation())
	api.Use(middleware.OptionalSession(authService, logger))

	api.HandleFunc("/health", healthHandler.Health).Methods("GET")

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	me := auth.PathPrefix("/me").Subrouter()
	me.Use(middleware.RequireSession())
	me.HandleFunc("", authHandler.Me).Methods("GET")
	me.HandleFunc("/shops", shopHandler.MyShops).Methods("GET")

	shops := api.PathPrefix("/shops").Subrouter()
	shops.HandleFunc("", shopHandler.ListShops).Methods("GET")
	shops.HandleFunc("", shopHandler.CreateShop).Methods("POST")
	shops.HandleFunc("/nearby", shopHandler.NearbyShops).Methods("GET")
	shops.HandleFunc("/search", shopHandler.SearchShops).Methods("GET")
	shops.HandleFunc("/{id}", shopHandler.GetShop).Methods("GET")
	shops.HandleFunc("/{id}", shopHandler.UpdateShop).Methods("PUT")
	shops.HandleFunc("/{id}", shopHandler.DeleteShop).Methods("DELETE")

	// Preflight requests carry OPTIONS, which no route registers.
	return middleware.CORS(cfg.AllowedOrigins)(r)
}

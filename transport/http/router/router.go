package router

import (
	"innkeep/config"
	"innkeep/internal/handlers/auth"
	"innkeep/internal/handlers/booking"
	"innkeep/internal/handlers/guest"
	"innkeep/internal/handlers/home"
	"innkeep/internal/handlers/hotel"
	"innkeep/internal/handlers/room"
	"innkeep/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type DomainHandlers struct {
	Home    home.Handler
	Auth    auth.Handler
	Hotel   hotel.Handler
	Room    room.Handler
	Guest   guest.Handler
	Booking booking.Handler
}

type Router struct {
	Config         *config.Config
	AppMiddleware  middleware.AppMiddleware
	Session        middleware.SessionMiddleware
	DomainHandlers DomainHandlers
}

func New(cfg *config.Config, appMiddleware middleware.AppMiddleware, session middleware.SessionMiddleware, domainHandlers DomainHandlers) Router {
	return Router{
		Config:         cfg,
		AppMiddleware:  appMiddleware,
		Session:        session,
		DomainHandlers: domainHandlers,
	}
}

func (r *Router) SetupRoutes(router chi.Router) {
	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowCredentials: r.Config.App.CORS.AllowCredentials,
			AllowedHeaders:   r.Config.App.CORS.AllowedHeaders,
			AllowedMethods:   r.Config.App.CORS.AllowedMethods,
			AllowedOrigins:   r.Config.App.CORS.AllowedOrigins,
			MaxAge:           r.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Use(r.AppMiddleware.Tracing)
	router.Use(r.AppMiddleware.RequestLogger)

	if r.Config.App.RateLimiter.Enable {
		router.Use(r.AppMiddleware.RateLimit)
	}

	// Every page resolves the session cookie when present; route groups
	// inside the handlers decide whether a signed-in user is required.
	router.Use(r.Session.SessionLoader)

	router.Group(func(routerGroup chi.Router) {
		r.DomainHandlers.Home.Router(routerGroup)
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Hotel.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Guest.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

//go:build wireinject
// +build wireinject

package di

import (
	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/infras/redis"
	"innkeep/shared/cache"
	"innkeep/transport/http"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/render"
	"innkeep/transport/http/router"

	authService "innkeep/internal/domains/auth/service"
	bookingRepository "innkeep/internal/domains/booking/repository"
	bookingService "innkeep/internal/domains/booking/service"
	guestRepository "innkeep/internal/domains/guest/repository"
	guestService "innkeep/internal/domains/guest/service"
	homeRepository "innkeep/internal/domains/home/repository"
	homeService "innkeep/internal/domains/home/service"
	hotelRepository "innkeep/internal/domains/hotel/repository"
	hotelService "innkeep/internal/domains/hotel/service"
	roomRepository "innkeep/internal/domains/room/repository"
	roomService "innkeep/internal/domains/room/service"
	userRepository "innkeep/internal/domains/user/repository"

	authHandler "innkeep/internal/handlers/auth"
	bookingHandler "innkeep/internal/handlers/booking"
	guestHandler "innkeep/internal/handlers/guest"
	homeHandler "innkeep/internal/handlers/home"
	hotelHandler "innkeep/internal/handlers/hotel"
	roomHandler "innkeep/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewSessionMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	render.New,
)

var homeDomain = wire.NewSet(
	homeRepository.New,
	homeService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var hotelDomain = wire.NewSet(
	hotelRepository.New,
	hotelService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var guestDomain = wire.NewSet(
	guestRepository.New,
	guestService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	homeDomain,
	authDomain,
	hotelDomain,
	roomDomain,
	guestDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	homeHandler.New,
	authHandler.New,
	hotelHandler.New,
	roomHandler.New,
	guestHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}, nil
}

package hotel

import (
	"innkeep/infras/otel"
	bookingDto "innkeep/internal/domains/booking/model/dto"
	bookingService "innkeep/internal/domains/booking/service"
	"innkeep/internal/domains/hotel/model/dto"
	"innkeep/internal/domains/hotel/service"
	"innkeep/shared"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"innkeep/shared/validator"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/render"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service        service.Hotel
	bookingService bookingService.Booking
	session        middleware.SessionMiddleware
	renderer       *render.Renderer
	otel           otel.Otel
}

func New(service service.Hotel, bookingService bookingService.Booking, session middleware.SessionMiddleware, renderer *render.Renderer, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		bookingService: bookingService,
		session:        session,
		renderer:       renderer,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Group(func(org chi.Router) {
		org.Use(handler.session.RequireOrganization)
		org.Get("/organization/dashboard/", handler.Dashboard)
		org.Get("/hotels/create/", handler.CreateForm)
		org.Post("/hotels/create/", handler.Create)
		org.Get("/hotels/{id}/bookings/", handler.Bookings)
	})
}

func (handler *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Dashboard")
	defer scope.End()

	res, err := handler.service.Dashboard(ctx, middleware.UserID(ctx))
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "dashboard", render.Page{
		Title:  "Dashboard",
		Viewer: render.ViewerFromContext(ctx),
		Data:   res,
	})
}

func (handler *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateHotelForm")
	defer scope.End()

	handler.renderer.HTML(w, http.StatusOK, "hotel_form", render.Page{
		Title:  "Add a hotel",
		Viewer: render.ViewerFromContext(ctx),
		Data:   dto.CreateHotelRequest{},
	})
}

func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateHotel")
	defer scope.End()

	req := dto.CreateHotelRequest{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		handler.renderer.HTML(w, http.StatusBadRequest, "hotel_form", render.Page{
			Title:  "Add a hotel",
			Viewer: render.ViewerFromContext(ctx),
			Error:  failure.GetMessage(err),
			Data:   req,
		})

		return
	}

	if _, err := handler.service.Create(ctx, req, middleware.UserID(ctx), middleware.UserKind(ctx)); err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	http.Redirect(w, r, "/organization/dashboard/", http.StatusFound)
}

type bookingsPage struct {
	Bookings     bookingDto.GetBookingsResponse
	Searchable   bool
	SearchAction string
}

func (handler *Handler) Bookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".HotelBookings")
	defer scope.End()

	hotelID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("hotel not found"))

		return
	}

	res, err := handler.bookingService.ListForHotel(ctx, hotelID, middleware.UserID(ctx))
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "bookings", render.Page{
		Title:  "Hotel bookings",
		Viewer: render.ViewerFromContext(ctx),
		Data: bookingsPage{
			Bookings: res,
		},
	})
}

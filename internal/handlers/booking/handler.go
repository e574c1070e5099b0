package booking

import (
	"context"
	"fmt"
	"innkeep/infras/otel"
	"innkeep/internal/domains/booking/model/dto"
	"innkeep/internal/domains/booking/service"
	guestDto "innkeep/internal/domains/guest/model/dto"
	guestService "innkeep/internal/domains/guest/service"
	roomDto "innkeep/internal/domains/room/model/dto"
	roomService "innkeep/internal/domains/room/service"
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
	service      service.Booking
	guestService guestService.Guest
	roomService  roomService.Room
	session      middleware.SessionMiddleware
	renderer     *render.Renderer
	otel         otel.Otel
}

func New(service service.Booking, guestService guestService.Guest, roomService roomService.Room, session middleware.SessionMiddleware, renderer *render.Renderer, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		guestService: guestService,
		roomService:  roomService,
		session:      session,
		renderer:     renderer,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	// Booking creation works with or without a session; walk-in visitors
	// book anonymously.
	router.Get("/bookings/create/", handler.CreateForm)
	router.Post("/bookings/create/", handler.Create)

	router.Group(func(protected chi.Router) {
		protected.Use(handler.session.RequireUser)
		protected.Get("/bookings/", handler.List)
		protected.Get("/my-bookings/", handler.MyBookings)
		protected.Get("/bookings/{id}/", handler.Detail)
		protected.Get("/bookings/{id}/cancel/", handler.Cancel)
	})

	router.Group(func(org chi.Router) {
		org.Use(handler.session.RequireOrganization)
		org.Get("/bookings/{id}/edit/", handler.EditForm)
		org.Post("/bookings/{id}/edit/", handler.Edit)
	})
}

type formPage struct {
	Form   dto.CreateBookingRequest
	Rooms  []roomDto.RoomResponse
	Guests []guestDto.GuestResponse
}

func (handler *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBookingForm")
	defer scope.End()

	query := r.URL.Query()
	form := dto.CreateBookingRequest{
		RoomID:   query.Get(constant.RequestParamRoom),
		CheckIn:  query.Get(constant.RequestParamCheckIn),
		CheckOut: query.Get(constant.RequestParamCheckOut),
		Adults:   "1",
		Children: "0",
	}

	handler.renderForm(ctx, w, r, form, nil)
}

func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{
		RoomID:          r.FormValue("room_id"),
		CheckIn:         r.FormValue("check_in"),
		CheckOut:        r.FormValue("check_out"),
		GuestID:         r.FormValue("guest_id"),
		FirstName:       r.FormValue("first_name"),
		LastName:        r.FormValue("last_name"),
		MiddleName:      r.FormValue("middle_name"),
		PassportNumber:  r.FormValue("passport_number"),
		Email:           r.FormValue("email"),
		Phone:           r.FormValue("phone"),
		Adults:          r.FormValue("adults"),
		Children:        r.FormValue("children"),
		SpecialRequests: r.FormValue("special_requests"),
	}

	userID := middleware.UserID(ctx)

	err := validator.ValidateStruct(&req)
	if err == nil {
		_, err = handler.service.Create(ctx, req, userID)
	}

	if err != nil {
		scope.TraceError(err)

		if rerenderable(err) {
			handler.renderForm(ctx, w, r, req, err)

			return
		}

		handler.renderer.Error(w, r, err)

		return
	}

	switch {
	case userID <= 0:
		http.Redirect(w, r, "/", http.StatusFound)
	case middleware.UserKind(ctx) == constant.UserKindOrganization:
		http.Redirect(w, r, "/bookings/", http.StatusFound)
	default:
		http.Redirect(w, r, "/my-bookings/", http.StatusFound)
	}
}

type listPage struct {
	Bookings     dto.GetBookingsResponse
	Searchable   bool
	SearchAction string
}

func (handler *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Bookings")
	defer scope.End()

	userID := middleware.UserID(ctx)
	search := r.URL.Query().Get(constant.RequestParamSearch)

	var (
		res dto.GetBookingsResponse
		err error
	)

	if middleware.UserKind(ctx) == constant.UserKindOrganization {
		res, err = handler.service.ListForOrganization(ctx, userID, search)
	} else {
		res, err = handler.service.ListForUser(ctx, userID, search)
	}

	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "bookings", render.Page{
		Title:  "Bookings",
		Viewer: render.ViewerFromContext(ctx),
		Data: listPage{
			Bookings:     res,
			Searchable:   true,
			SearchAction: "/bookings/",
		},
	})
}

func (handler *Handler) MyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MyBookings")
	defer scope.End()

	res, err := handler.service.ListForUser(ctx, middleware.UserID(ctx), "")
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "bookings", render.Page{
		Title:  "My bookings",
		Viewer: render.ViewerFromContext(ctx),
		Data: listPage{
			Bookings: res,
		},
	})
}

func (handler *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BookingDetail")
	defer scope.End()

	bookingID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("booking not found"))

		return
	}

	res, err := handler.service.Get(ctx, bookingID, middleware.UserID(ctx), middleware.UserKind(ctx))
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "booking_detail", render.Page{
		Title:  fmt.Sprintf("Booking #%d", res.ID),
		Viewer: render.ViewerFromContext(ctx),
		Data:   res,
	})
}

type editPage struct {
	Booking dto.BookingResponse
	Form    dto.UpdateBookingRequest
	Rooms   []roomDto.RoomListItemResponse
}

func (handler *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".EditBookingForm")
	defer scope.End()

	bookingID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("booking not found"))

		return
	}

	booking, err := handler.service.Get(ctx, bookingID, middleware.UserID(ctx), middleware.UserKind(ctx))
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	if !booking.CanEdit {
		handler.renderer.Error(w, r, failure.ErrAccessDenied)

		return
	}

	form := dto.UpdateBookingRequest{
		RoomID:          fmt.Sprintf("%d", booking.RoomID),
		CheckIn:         booking.CheckIn,
		CheckOut:        booking.CheckOut,
		Adults:          fmt.Sprintf("%d", booking.Adults),
		Children:        fmt.Sprintf("%d", booking.Children),
		SpecialRequests: booking.SpecialRequests,
	}

	handler.renderEdit(ctx, w, r, booking, form, nil)
}

func (handler *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".EditBooking")
	defer scope.End()

	bookingID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("booking not found"))

		return
	}

	req := dto.UpdateBookingRequest{
		RoomID:          r.FormValue("room_id"),
		CheckIn:         r.FormValue("check_in"),
		CheckOut:        r.FormValue("check_out"),
		Adults:          r.FormValue("adults"),
		Children:        r.FormValue("children"),
		SpecialRequests: r.FormValue("special_requests"),
	}

	err := validator.ValidateStruct(&req)
	if err == nil {
		err = handler.service.Update(ctx, req, bookingID, middleware.UserID(ctx))
	}

	if err != nil {
		scope.TraceError(err)

		if rerenderable(err) {
			booking, gErr := handler.service.Get(ctx, bookingID, middleware.UserID(ctx), middleware.UserKind(ctx))
			if gErr != nil {
				handler.renderer.Error(w, r, gErr)

				return
			}

			handler.renderEdit(ctx, w, r, booking, req, err)

			return
		}

		handler.renderer.Error(w, r, err)

		return
	}

	http.Redirect(w, r, fmt.Sprintf("/bookings/%d/", bookingID), http.StatusFound)
}

func (handler *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	bookingID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("booking not found"))

		return
	}

	if err := handler.service.Cancel(ctx, bookingID, middleware.UserID(ctx)); err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	http.Redirect(w, r, "/my-bookings/", http.StatusFound)
}

func (handler *Handler) renderForm(ctx context.Context, w http.ResponseWriter, r *http.Request, form dto.CreateBookingRequest, formErr error) {
	rooms, err := handler.roomService.List(ctx, "")
	if err != nil {
		handler.renderer.Error(w, r, err)

		return
	}

	page := formPage{
		Form:  form,
		Rooms: rooms.Rooms,
	}

	if userID := middleware.UserID(ctx); userID > 0 {
		guests, err := handler.guestService.List(ctx, userID, "")
		if err != nil {
			handler.renderer.Error(w, r, err)

			return
		}

		page.Guests = guests.Guests
	}

	status := http.StatusOK
	message := ""

	if formErr != nil {
		status = failure.GetCode(formErr)
		message = failure.GetMessage(formErr)
	}

	handler.renderer.HTML(w, status, "booking_form", render.Page{
		Title:  "Book a room",
		Viewer: render.ViewerFromContext(ctx),
		Error:  message,
		Data:   page,
	})
}

func (handler *Handler) renderEdit(ctx context.Context, w http.ResponseWriter, r *http.Request, booking dto.BookingResponse, form dto.UpdateBookingRequest, formErr error) {
	rooms, err := handler.roomService.ListOwned(ctx, middleware.UserID(ctx))
	if err != nil {
		handler.renderer.Error(w, r, err)

		return
	}

	status := http.StatusOK
	message := ""

	if formErr != nil {
		status = failure.GetCode(formErr)
		message = failure.GetMessage(formErr)
	}

	handler.renderer.HTML(w, status, "booking_edit", render.Page{
		Title:  fmt.Sprintf("Edit booking #%d", booking.ID),
		Viewer: render.ViewerFromContext(ctx),
		Error:  message,
		Data: editPage{
			Booking: booking,
			Form:    form,
			Rooms:   rooms,
		},
	})
}

// rerenderable reports whether the failure should come back as an inline form
// message instead of a standalone error page.
func rerenderable(err error) bool {
	return failure.IsCode(err, http.StatusBadRequest) ||
		failure.IsCode(err, http.StatusNotFound) ||
		failure.IsCode(err, http.StatusConflict)
}

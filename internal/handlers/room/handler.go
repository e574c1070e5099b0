package room

import (
	"fmt"
	"innkeep/infras/otel"
	bookingService "innkeep/internal/domains/booking/service"
	hotelService "innkeep/internal/domains/hotel/service"
	"innkeep/internal/domains/room/model/dto"
	"innkeep/internal/domains/room/service"
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
	service        service.Room
	hotelService   hotelService.Hotel
	bookingService bookingService.Booking
	session        middleware.SessionMiddleware
	renderer       *render.Renderer
	otel           otel.Otel
}

func New(service service.Room, hotelService hotelService.Hotel, bookingService bookingService.Booking, session middleware.SessionMiddleware, renderer *render.Renderer, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		hotelService:   hotelService,
		bookingService: bookingService,
		session:        session,
		renderer:       renderer,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/rooms/", handler.List)
	router.Get("/rooms/{id}/", handler.Detail)

	router.Group(func(org chi.Router) {
		org.Use(handler.session.RequireOrganization)
		org.Get("/organization/rooms/", handler.ListOwned)
		org.Get("/hotels/{id}/rooms/create/", handler.CreateForm)
		org.Post("/hotels/{id}/rooms/create/", handler.Create)
		org.Get("/rooms/{id}/edit/", handler.EditForm)
		org.Post("/rooms/{id}/edit/", handler.Edit)
		org.Post("/rooms/{id}/delete/", handler.Delete)
	})
}

type roomsPage struct {
	dto.GetRoomsResponse
	SelectedType string
}

func (handler *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Rooms")
	defer scope.End()

	typeName := r.URL.Query().Get(constant.RequestParamType)

	res, err := handler.service.List(ctx, typeName)
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "rooms", render.Page{
		Title:  "Rooms",
		Viewer: render.ViewerFromContext(ctx),
		Data: roomsPage{
			GetRoomsResponse: res,
			SelectedType:     typeName,
		},
	})
}

type roomDetailPage struct {
	Room      dto.RoomResponse
	CheckIn   string
	CheckOut  string
	Probed    bool
	Available bool
}

func (handler *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RoomDetail")
	defer scope.End()

	roomID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("room not found"))

		return
	}

	room, err := handler.service.Get(ctx, roomID)
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	page := roomDetailPage{
		Room:     room,
		CheckIn:  r.URL.Query().Get(constant.RequestParamCheckIn),
		CheckOut: r.URL.Query().Get(constant.RequestParamCheckOut),
	}

	errorMessage := ""

	if page.CheckIn != "" && page.CheckOut != "" {
		available, err := handler.bookingService.Probe(ctx, roomID, page.CheckIn, page.CheckOut)
		if err != nil {
			scope.TraceError(err)

			if !failure.IsCode(err, http.StatusBadRequest) {
				handler.renderer.Error(w, r, err)

				return
			}

			errorMessage = failure.GetMessage(err)
		} else {
			page.Probed = true
			page.Available = available
		}
	}

	handler.renderer.HTML(w, http.StatusOK, "room_detail", render.Page{
		Title:  "Room " + room.Number,
		Viewer: render.ViewerFromContext(ctx),
		Error:  errorMessage,
		Data:   page,
	})
}

func (handler *Handler) ListOwned(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".OwnedRooms")
	defer scope.End()

	rooms, err := handler.service.ListOwned(ctx, middleware.UserID(ctx))
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "org_rooms", render.Page{
		Title:  "Your rooms",
		Viewer: render.ViewerFromContext(ctx),
		Data: struct {
			Rooms []dto.RoomListItemResponse
		}{Rooms: rooms},
	})
}

type roomFormPage struct {
	Form   dto.CreateRoomRequest
	Action string
}

func (handler *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoomForm")
	defer scope.End()

	hotelID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("hotel not found"))

		return
	}

	// Resolving the hotel up front keeps foreign dashboards out.
	if _, err := handler.hotelService.GetOwned(ctx, hotelID, middleware.UserID(ctx)); err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "room_form", render.Page{
		Title:  "Add a room",
		Viewer: render.ViewerFromContext(ctx),
		Data: roomFormPage{
			Action: fmt.Sprintf("/hotels/%d/rooms/create/", hotelID),
		},
	})
}

func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	hotelID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("hotel not found"))

		return
	}

	req := readRoomForm(r)

	err := validator.ValidateStruct(&req)
	if err == nil {
		_, err = handler.service.Create(ctx, req, hotelID, middleware.UserID(ctx))
	}

	if err != nil {
		scope.TraceError(err)

		if failure.IsCode(err, http.StatusBadRequest) {
			handler.renderer.HTML(w, http.StatusBadRequest, "room_form", render.Page{
				Title:  "Add a room",
				Viewer: render.ViewerFromContext(ctx),
				Error:  failure.GetMessage(err),
				Data: roomFormPage{
					Form:   req,
					Action: fmt.Sprintf("/hotels/%d/rooms/create/", hotelID),
				},
			})

			return
		}

		handler.renderer.Error(w, r, err)

		return
	}

	http.Redirect(w, r, "/organization/rooms/", http.StatusFound)
}

func (handler *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".EditRoomForm")
	defer scope.End()

	roomID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("room not found"))

		return
	}

	room, err := handler.service.GetOwned(ctx, roomID, middleware.UserID(ctx))
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "room_form", render.Page{
		Title:  "Edit room " + room.Number,
		Viewer: render.ViewerFromContext(ctx),
		Data: roomFormPage{
			Form: dto.CreateRoomRequest{
				Number:      room.Number,
				Name:        room.Name,
				Description: room.Description,
				TypeName:    room.TypeName,
				PricePerDay: fmt.Sprintf("%.2f", room.PricePerDay),
			},
			Action: fmt.Sprintf("/rooms/%d/edit/", roomID),
		},
	})
}

func (handler *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".EditRoom")
	defer scope.End()

	roomID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("room not found"))

		return
	}

	form := readRoomForm(r)
	req := dto.UpdateRoomRequest{
		Number:      form.Number,
		Name:        form.Name,
		Description: form.Description,
		TypeName:    form.TypeName,
		PricePerDay: form.PricePerDay,
	}

	err := validator.ValidateStruct(&req)
	if err == nil {
		err = handler.service.Update(ctx, req, roomID, middleware.UserID(ctx))
	}

	if err != nil {
		scope.TraceError(err)

		if failure.IsCode(err, http.StatusBadRequest) {
			handler.renderer.HTML(w, http.StatusBadRequest, "room_form", render.Page{
				Title:  "Edit room",
				Viewer: render.ViewerFromContext(ctx),
				Error:  failure.GetMessage(err),
				Data: roomFormPage{
					Form:   form,
					Action: fmt.Sprintf("/rooms/%d/edit/", roomID),
				},
			})

			return
		}

		handler.renderer.Error(w, r, err)

		return
	}

	http.Redirect(w, r, "/organization/rooms/", http.StatusFound)
}

func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	roomID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		handler.renderer.Error(w, r, failure.NotFound("room not found"))

		return
	}

	if err := handler.service.Delete(ctx, roomID, middleware.UserID(ctx)); err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	http.Redirect(w, r, "/organization/rooms/", http.StatusFound)
}

func readRoomForm(r *http.Request) dto.CreateRoomRequest {
	return dto.CreateRoomRequest{
		Number:      r.FormValue("number"),
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		TypeName:    r.FormValue("type_name"),
		PricePerDay: r.FormValue("price_per_day"),
	}
}

package guest

import (
	"innkeep/infras/otel"
	"innkeep/internal/domains/guest/model/dto"
	"innkeep/internal/domains/guest/service"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"innkeep/shared/validator"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/render"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service  service.Guest
	session  middleware.SessionMiddleware
	renderer *render.Renderer
	otel     otel.Otel
}

func New(service service.Guest, session middleware.SessionMiddleware, renderer *render.Renderer, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		session:  session,
		renderer: renderer,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(handler.session.RequireUser)
		protected.Get("/guests/", handler.List)
		protected.Get("/guests/create/", handler.CreateForm)
		protected.Post("/guests/create/", handler.Create)
	})
}

func (handler *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Guests")
	defer scope.End()

	search := r.URL.Query().Get(constant.RequestParamSearch)

	res, err := handler.service.List(ctx, middleware.UserID(ctx), search)
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "guests", render.Page{
		Title:  "Guests",
		Viewer: render.ViewerFromContext(ctx),
		Data:   res,
	})
}

func (handler *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateGuestForm")
	defer scope.End()

	handler.renderer.HTML(w, http.StatusOK, "guest_form", render.Page{
		Title:  "Add a guest",
		Viewer: render.ViewerFromContext(ctx),
		Data:   dto.CreateGuestRequest{},
	})
}

func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateGuest")
	defer scope.End()

	req := dto.CreateGuestRequest{
		FirstName:      r.FormValue("first_name"),
		LastName:       r.FormValue("last_name"),
		MiddleName:     r.FormValue("middle_name"),
		PassportNumber: r.FormValue("passport_number"),
		Email:          r.FormValue("email"),
		Phone:          r.FormValue("phone"),
	}

	err := validator.ValidateStruct(&req)
	if err == nil {
		_, err = handler.service.Create(ctx, req, middleware.UserID(ctx))
	}

	if err != nil {
		scope.TraceError(err)

		if failure.IsCode(err, http.StatusBadRequest) || failure.IsCode(err, http.StatusConflict) {
			handler.renderer.HTML(w, failure.GetCode(err), "guest_form", render.Page{
				Title:  "Add a guest",
				Viewer: render.ViewerFromContext(ctx),
				Error:  failure.GetMessage(err),
				Data:   req,
			})

			return
		}

		handler.renderer.Error(w, r, err)

		return
	}

	http.Redirect(w, r, "/guests/", http.StatusFound)
}

package home

import (
	"innkeep/infras/otel"
	"innkeep/internal/domains/home/service"
	"innkeep/shared/constant"
	"innkeep/transport/http/render"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service  service.Home
	renderer *render.Renderer
	otel     otel.Otel
}

func New(service service.Home, renderer *render.Renderer, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		renderer: renderer,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/", handler.Home)
	router.Get("/contact/", handler.Contact)
}

func (handler *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Home")
	defer scope.End()

	stats, err := handler.service.Stats(ctx)
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderer.HTML(w, http.StatusOK, "home", render.Page{
		Title:  "Home",
		Viewer: render.ViewerFromContext(ctx),
		Data:   stats,
	})
}

func (handler *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Contact")
	defer scope.End()

	handler.renderer.HTML(w, http.StatusOK, "contact", render.Page{
		Title:  "Contact",
		Viewer: render.ViewerFromContext(ctx),
	})
}

package auth

import (
	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/auth/model/dto"
	"innkeep/internal/domains/auth/service"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"innkeep/shared/validator"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/render"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.Auth
	session  middleware.SessionMiddleware
	renderer *render.Renderer
	cfg      *config.Config
	otel     otel.Otel
}

func New(service service.Auth, session middleware.SessionMiddleware, renderer *render.Renderer, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		session:  session,
		renderer: renderer,
		cfg:      cfg,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/register/", handler.RegisterForm)
	router.Post("/register/", handler.Register)
	router.Get("/login/", handler.LoginForm)
	router.Post("/login/", handler.Login)
	router.Get("/logout/", handler.Logout)

	router.Group(func(protected chi.Router) {
		protected.Use(handler.session.RequireUser)
		protected.Get("/profile/", handler.Profile)
		protected.Post("/profile/", handler.UpdateProfile)
		protected.Post("/profile/password/", handler.ChangePassword)
	})
}

func (handler *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RegisterForm")
	defer scope.End()

	handler.renderer.HTML(w, http.StatusOK, "register", render.Page{
		Title:  "Register",
		Viewer: render.ViewerFromContext(ctx),
		Data:   dto.RegisterRequest{Kind: constant.UserKindIndividual},
	})
}

func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Register")
	defer scope.End()

	req := dto.RegisterRequest{
		FullName:         r.FormValue("full_name"),
		Phone:            r.FormValue("phone"),
		Email:            r.FormValue("email"),
		Password:         r.FormValue("password"),
		ConfirmPassword:  r.FormValue("confirm_password"),
		Kind:             r.FormValue("user_type"),
		OrganizationName: r.FormValue("organization_name"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		handler.renderRegister(w, r, req, err)

		return
	}

	res, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)

		if failure.IsCode(err, http.StatusBadRequest) {
			handler.renderRegister(w, r, req, err)

			return
		}

		handler.renderer.Error(w, r, err)

		return
	}

	handler.setSessionCookie(w, res)
	http.Redirect(w, r, landingPath(res.Kind), http.StatusFound)
}

func (handler *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".LoginForm")
	defer scope.End()

	handler.renderer.HTML(w, http.StatusOK, "login", render.Page{
		Title:  "Sign in",
		Viewer: render.ViewerFromContext(ctx),
		Data:   dto.LoginRequest{},
	})
}

func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	req := dto.LoginRequest{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		handler.renderLogin(w, r, req, err)

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)

		if failure.IsCode(err, http.StatusBadRequest) {
			handler.renderLogin(w, r, req, err)

			return
		}

		handler.renderer.Error(w, r, err)

		return
	}

	handler.setSessionCookie(w, res)
	http.Redirect(w, r, landingPath(res.Kind), http.StatusFound)
}

func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Logout")
	defer scope.End()

	http.SetCookie(w, &http.Cookie{
		Name:     constant.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.cfg.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusFound)
}

func (handler *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Profile")
	defer scope.End()

	profile, err := handler.service.Profile(ctx, middleware.UserID(ctx))
	if err != nil {
		scope.TraceError(err)
		handler.renderer.Error(w, r, err)

		return
	}

	handler.renderProfile(w, r, profile, dto.UpdateProfileRequest{
		FullName:         profile.FullName,
		Phone:            profile.Phone,
		Email:            profile.Email,
		OrganizationName: profile.OrganizationName,
	}, nil)
}

func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProfile")
	defer scope.End()

	userID := middleware.UserID(ctx)

	req := dto.UpdateProfileRequest{
		FullName:         r.FormValue("full_name"),
		Phone:            r.FormValue("phone"),
		Email:            r.FormValue("email"),
		OrganizationName: r.FormValue("organization_name"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		handler.reloadProfile(w, r, req, err)

		return
	}

	res, err := handler.service.UpdateProfile(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)

		if failure.IsCode(err, http.StatusBadRequest) {
			handler.reloadProfile(w, r, req, err)

			return
		}

		handler.renderer.Error(w, r, err)

		return
	}

	// The session claims carry the email, so the cookie is re-issued.
	handler.setSessionCookie(w, res)
	http.Redirect(w, r, "/profile/", http.StatusFound)
}

func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangePassword")
	defer scope.End()

	userID := middleware.UserID(ctx)

	req := dto.ChangePasswordRequest{
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}

	err := validator.ValidateStruct(&req)
	if err == nil {
		err = handler.service.ChangePassword(ctx, req, userID)
	}

	if err != nil {
		scope.TraceError(err)

		if failure.IsCode(err, http.StatusBadRequest) {
			profile, pErr := handler.service.Profile(ctx, userID)
			if pErr != nil {
				handler.renderer.Error(w, r, pErr)

				return
			}

			handler.renderProfile(w, r, profile, dto.UpdateProfileRequest{
				FullName:         profile.FullName,
				Phone:            profile.Phone,
				Email:            profile.Email,
				OrganizationName: profile.OrganizationName,
			}, err)

			return
		}

		handler.renderer.Error(w, r, err)

		return
	}

	http.Redirect(w, r, "/profile/", http.StatusFound)
}

type profilePage struct {
	Profile dto.ProfileResponse
	Form    dto.UpdateProfileRequest
}

func (handler *Handler) renderProfile(w http.ResponseWriter, r *http.Request, profile dto.ProfileResponse, form dto.UpdateProfileRequest, err error) {
	status := http.StatusOK
	message := ""

	if err != nil {
		status = http.StatusBadRequest
		message = failure.GetMessage(err)
	}

	handler.renderer.HTML(w, status, "profile", render.Page{
		Title:  "Profile",
		Viewer: render.ViewerFromContext(r.Context()),
		Error:  message,
		Data: profilePage{
			Profile: profile,
			Form:    form,
		},
	})
}

func (handler *Handler) reloadProfile(w http.ResponseWriter, r *http.Request, form dto.UpdateProfileRequest, err error) {
	profile, pErr := handler.service.Profile(r.Context(), middleware.UserID(r.Context()))
	if pErr != nil {
		log.Error().Err(pErr).Msg("failed to reload profile")
		handler.renderer.Error(w, r, pErr)

		return
	}

	handler.renderProfile(w, r, profile, form, err)
}

func (handler *Handler) renderRegister(w http.ResponseWriter, r *http.Request, req dto.RegisterRequest, err error) {
	req.Password = ""
	req.ConfirmPassword = ""

	handler.renderer.HTML(w, http.StatusBadRequest, "register", render.Page{
		Title:  "Register",
		Viewer: render.ViewerFromContext(r.Context()),
		Error:  failure.GetMessage(err),
		Data:   req,
	})
}

func (handler *Handler) renderLogin(w http.ResponseWriter, r *http.Request, req dto.LoginRequest, err error) {
	req.Password = ""

	handler.renderer.HTML(w, http.StatusBadRequest, "login", render.Page{
		Title:  "Sign in",
		Viewer: render.ViewerFromContext(r.Context()),
		Error:  failure.GetMessage(err),
		Data:   req,
	})
}

func (handler *Handler) setSessionCookie(w http.ResponseWriter, res dto.SessionResponse) {
	http.SetCookie(w, &http.Cookie{
		Name:     constant.SessionCookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   handler.cfg.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func landingPath(kind string) string {
	if kind == constant.UserKindOrganization {
		return "/organization/dashboard/"
	}

	return "/"
}

package render

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

const layoutFile = "templates/layout.gohtml"

// Viewer is the signed-in identity as the templates see it. A nil Viewer
// renders the anonymous navigation.
type Viewer struct {
	ID    int64
	Email string
	Kind  string
}

func (v *Viewer) IsOrganization() bool {
	return v != nil && v.Kind == constant.UserKindOrganization
}

// ViewerFromContext returns the session identity loaded by the middleware,
// or nil for anonymous requests.
func ViewerFromContext(ctx context.Context) *Viewer {
	userID, ok := ctx.Value(constant.ContextKeyUserID).(int64)
	if !ok || userID <= 0 {
		return nil
	}

	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	kind, _ := ctx.Value(constant.ContextKeyUserKind).(string)

	return &Viewer{
		ID:    userID,
		Email: email,
		Kind:  kind,
	}
}

// Page is the root template context. Data carries the page-specific payload;
// Error, when set, renders as an inline banner above the page content.
type Page struct {
	Title  string
	Viewer *Viewer
	Error  string
	Data   any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": func(amount float64) string {
		return fmt.Sprintf("%.2f", amount)
	},
}

// New parses every page template against the shared layout once at startup
// so malformed templates fail the boot, not a request.
func New() (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template)

	for _, entry := range entries {
		if entry == layoutFile {
			continue
		}

		name := strings.TrimSuffix(path.Base(entry), ".gohtml")

		tmpl, err := template.New("layout.gohtml").Funcs(funcs).ParseFS(templateFS, layoutFile, entry)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", entry, err)
		}

		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// HTML writes the named page wrapped in the layout.
func (r *Renderer) HTML(w http.ResponseWriter, status int, page string, data Page) {
	tmpl, ok := r.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeHTML)
	w.WriteHeader(status)

	if err := tmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("failed to render template")
	}
}

// Error translates a failure into the HTML surface: login redirect for
// missing sessions, an access-denied page, a not-found page, or a generic
// error page. Handlers that re-render forms handle validation errors
// themselves and never call this for them.
func (r *Renderer) Error(w http.ResponseWriter, req *http.Request, err error) {
	code := failure.GetCode(err)

	switch code {
	case http.StatusUnauthorized:
		http.Redirect(w, req, "/login/", http.StatusFound)
	case http.StatusForbidden:
		r.HTML(w, http.StatusForbidden, "error", Page{
			Title:  "Access denied",
			Viewer: ViewerFromContext(req.Context()),
			Error:  "You do not have access to this page.",
		})
	case http.StatusNotFound:
		message := failure.GetMessage(err)
		if message == "" {
			message = "The page you are looking for does not exist."
		}

		r.HTML(w, http.StatusNotFound, "error", Page{
			Title:  "Not found",
			Viewer: ViewerFromContext(req.Context()),
			Error:  message,
		})
	default:
		message := failure.GetMessage(err)
		if message == "" {
			message = http.StatusText(code)
		}

		r.HTML(w, code, "error", Page{
			Title:  "Error",
			Viewer: ViewerFromContext(req.Context()),
			Error:  message,
		})
	}
}

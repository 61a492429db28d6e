package site

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/choreworld/choreworld.github.io/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// RenderContext carries everything one page template needs: the roster,
// this week's assignments per group, and the rotation data the client-side
// script uses to preview other weeks.
type RenderContext struct {
	Groups             []types.ChoreGroup
	Assignments        map[string]types.Assignment
	CurrentWeekendDate string
	CurrentWeekendISO  string
	CurrentOffset      int
	ChoresJSON         template.JS
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded template set.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		"urlpath": URLPath,
		"lower":   strings.ToLower,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeRenderTemplateMissing,
			"failed to parse embedded templates", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named page template into w.
func (r *Renderer) Render(w io.Writer, name string, ctx RenderContext) error {
	if r.tmpl.Lookup(name) == nil {
		return types.NewAppError(types.ErrCodeRenderTemplateMissing,
			fmt.Sprintf("no template named %s", name), nil)
	}
	if err := r.tmpl.ExecuteTemplate(w, name, ctx); err != nil {
		return types.NewAppError(types.ErrCodeRenderTemplateFailed,
			fmt.Sprintf("failed to render %s", name), err)
	}
	return nil
}

// URLPath normalizes a site-relative path to a single leading slash.
func URLPath(p string) string {
	return "/" + strings.TrimLeft(p, "/")
}

// ChoresJSON encodes each group's chore ids and roster as a two-element
// array, keyed by group id. The page script replays the rotation from this
// to preview past and future weeks without another build.
func ChoresJSON(groups []types.ChoreGroup) (template.JS, error) {
	data := make(map[string][2][]string, len(groups))
	for _, group := range groups {
		ids := make([]string, len(group.Chores))
		for i, chore := range group.Chores {
			ids[i] = chore.ID
		}
		data[group.ID] = [2][]string{ids, group.People}
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeRenderTemplateFailed,
			"failed to encode rotation data", err)
	}
	return template.JS(encoded), nil
}

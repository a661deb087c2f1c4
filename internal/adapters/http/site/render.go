package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/okian/pulse/internal/adapters/chart"
	"github.com/okian/pulse/internal/domain/dashboard"
	"github.com/okian/pulse/pkg/metrics"
)

const (
	defaultTitle  = "Patient Dashboard"
	defaultStatic = "/static"
)

// Renderer executes the dashboard templates.
type Renderer struct {
	tmpl   *template.Template
	title  string
	static string
}

// RenderOption applies a configuration option to the Renderer.
type RenderOption func(*Renderer)

// WithTitle sets the page title.
func WithTitle(title string) RenderOption {
	return func(r *Renderer) {
		if title != "" {
			r.title = title
		}
	}
}

// NewRenderer parses the embedded templates.
func NewRenderer(opts ...RenderOption) (*Renderer, error) {
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		"level": newLevelView,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	r := &Renderer{tmpl: tmpl, title: defaultTitle, static: defaultStatic}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type pageView struct {
	Title     string
	Static    string
	InlineCSS template.CSS
	Entries   []dashboard.ListEntry
	Detail    *detailView
	LoadError *dashboard.LoadError
}

type detailView struct {
	dashboard.Detail
	Static   string
	ChartDoc string
}

type levelView struct {
	Reading dashboard.Reading
	Static  string
}

func newLevelView(r dashboard.Reading, static string) levelView {
	return levelView{Reading: r, Static: static}
}

// Page writes the whole dashboard document.
func (r *Renderer) Page(w io.Writer, page dashboard.Page) error {
	return r.execute(w, "page", r.pageView(page))
}

// Detail writes only the detail component of one patient.
func (r *Renderer) Detail(w io.Writer, d dashboard.Detail) error {
	return r.execute(w, "detail", &detailView{Detail: d, Static: r.static})
}

// Standalone writes a self-contained page: the stylesheet is inlined and the chart
// document is embedded in the frame instead of being fetched.
func (r *Renderer) Standalone(w io.Writer, page dashboard.Page, chartOpts ...chart.Option) error {
	view := r.pageView(page)

	css, err := staticFS.ReadFile("static/css/dashboard.css")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	view.InlineCSS = template.CSS(css) //nolint:gosec // embedded stylesheet

	if view.Detail != nil {
		var doc bytes.Buffer
		if err := chart.Render(&doc, view.Detail.Chart, chartOpts...); err != nil {
			metrics.RecordRenderError("chart")
			return err
		}
		view.Detail.ChartDoc = doc.String()
	}
	return r.execute(w, "page", view)
}

func (r *Renderer) pageView(page dashboard.Page) pageView {
	view := pageView{
		Title:     r.title,
		Static:    r.static,
		Entries:   page.Entries,
		LoadError: page.LoadError,
	}
	if page.Detail != nil {
		view.Detail = &detailView{Detail: *page.Detail, Static: r.static}
	}
	return view
}

// execute renders into a buffer first so a failing template never leaves a
// half-written response.
func (r *Renderer) execute(w io.Writer, name string, data any) error {
	start := time.Now()
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		metrics.RecordRenderError(name)
		return fmt.Errorf("%w: %s: %v", ErrRender, name, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRender, name, err)
	}
	metrics.RecordRender(name, float64(time.Since(start).Microseconds())/1000)
	return nil
}

package main

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pivolan/ocorrencias_analyzer/catalog"
	"github.com/pivolan/ocorrencias_analyzer/dashboard"
	"github.com/pivolan/ocorrencias_analyzer/executor"
	"github.com/pivolan/ocorrencias_analyzer/plot"
	"github.com/pivolan/ocorrencias_analyzer/present"
	"github.com/rs/zerolog/log"
)

const pageTitle = "Visualização Interativa de Ocorrências Aéreas"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table.resultado { border-collapse: collapse; }
table.resultado th, table.resultado td { border: 1px solid #ccc; padding: 4px 8px; }
.aviso { background: #fff3cd; padding: 8px; }
iframe { border: 0; width: 100%; height: 560px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="get" action="/">
<label>Selecione uma consulta
<select name="consulta" onchange="this.form.submit()">
{{- range .Labels}}
<option{{if eq . $.Label}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
</label>
{{- if .Selection.HasSlider}}
<label>Número de linhas para exibir
<input type="range" name="linhas" min="{{.Selection.SliderMin}}" max="{{.Selection.SliderMax}}" value="{{.Selection.Rows}}" oninput="this.nextElementSibling.value=this.value" onchange="this.form.submit()">
<output>{{.Selection.Rows}}</output>
</label>
{{- end}}
<noscript><button type="submit">Atualizar</button></noscript>
</form>
<h2>{{.Label}}</h2>
{{- if .Selection.Empty}}
<p>A consulta não retornou resultados.</p>
{{- else}}
{{.Table}}
<p><a href="/export?{{.Query}}" download="{{.ExportName}}">Baixar CSV</a></p>
{{- if .Selection.HasRecipe}}
<h2>Visualização Gráfica</h2>
{{- if .Selection.Warning}}
<p class="aviso">{{.Selection.Warning}}</p>
{{- else}}
<iframe src="/chart?{{.Query}}" title="{{.Selection.Chart.Title}}"></iframe>
<p><a href="/chart.png?{{.Query}}">Baixar PNG</a></p>
{{- end}}
{{- end}}
{{- end}}
</body>
</html>
`))

type pageData struct {
	Title      string
	Labels     []string
	Label      string
	Selection  *dashboard.Selection
	Table      template.HTML
	Query      template.URL
	ExportName string
}

type webHandler struct {
	dash *dashboard.Dashboard
}

func newRouter(dash *dashboard.Dashboard) http.Handler {
	h := &webHandler{dash: dash}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", h.index)
	r.Get("/export", h.export)
	r.Get("/chart", h.chartHTML)
	r.Get("/chart.png", h.chartPNG)
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func labelQuery(label string) template.URL {
	return template.URL(url.Values{"consulta": {label}}.Encode())
}

func (h *webHandler) index(w http.ResponseWriter, r *http.Request) {
	rows := dashboard.AutoRows
	// a missing or malformed linhas falls back to the default preview
	if n, err := strconv.Atoi(r.URL.Query().Get("linhas")); err == nil {
		rows = n
	}
	sel, err := h.dash.Select(r.Context(), r.URL.Query().Get("consulta"), rows)
	if err != nil {
		writeError(w, err)
		return
	}

	data := pageData{
		Title:      pageTitle,
		Labels:     h.dash.Catalog().Labels(),
		Label:      sel.Label,
		Selection:  sel,
		Query:      labelQuery(sel.Label),
		ExportName: present.ExportFileName,
	}
	if !sel.Empty() {
		data.Table = template.HTML(present.HTMLTable(sel.Result, sel.Rows))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("render page")
	}
}

func (h *webHandler) export(w http.ResponseWriter, r *http.Request) {
	b, err := h.dash.Export(r.Context(), r.URL.Query().Get("consulta"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", present.ExportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+present.ExportFileName+`"`)
	w.Write(b)
}

func (h *webHandler) chart(w http.ResponseWriter, r *http.Request) (*plot.Chart, bool) {
	c, err := h.dash.Chart(r.Context(), r.URL.Query().Get("consulta"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return c, true
}

func (h *webHandler) chartHTML(w http.ResponseWriter, r *http.Request) {
	c, ok := h.chart(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := plot.RenderHTML(c, w); err != nil {
		log.Error().Err(err).Str("label", c.Label).Msg("render interactive chart")
	}
}

func (h *webHandler) chartPNG(w http.ResponseWriter, r *http.Request) {
	c, ok := h.chart(w, r)
	if !ok {
		return
	}
	b, err := plot.RenderPNG(c)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="`+plot.FileName(c, "png")+`"`)
	w.Write(b)
}

// writeError maps dashboard errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		unknown *catalog.UnknownLabelError
		execErr *executor.ExecutionError
		missing *plot.MissingColumnError
	)
	switch {
	case errors.As(err, &unknown):
		http.Error(w, "Consulta desconhecida: "+unknown.Label, http.StatusNotFound)
	case errors.Is(err, dashboard.ErrNoChart), errors.Is(err, plot.ErrEmptyChart):
		http.Error(w, "Consulta sem gráfico.", http.StatusNotFound)
	case errors.As(err, &missing):
		http.Error(w, missing.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &execErr):
		log.Error().Err(err).Msg("query execution failed")
		http.Error(w, "Erro ao executar a consulta: "+execErr.Err.Error(), http.StatusInternalServerError)
	default:
		log.Error().Err(err).Msg("request failed")
		http.Error(w, dashboard.WarningText(err), http.StatusInternalServerError)
	}
}

// serveHTTP listens on addr until ctx is done.
func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

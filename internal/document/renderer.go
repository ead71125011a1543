package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
	"github.com/igtaposh/ordersathi-backend/web"
)

// ContentType is the MIME type of every rendered document.
const ContentType = "application/pdf"

// Engine hands out rendering sessions. Implementations may bound how many are live at once.
type Engine interface {
	Acquire(ctx context.Context) (Session, error)
}

// Session converts HTML to PDF. Release must be called exactly once per acquired session.
type Session interface {
	Convert(ctx context.Context, html string) ([]byte, error)
	Release()
}

// Recorder receives render outcomes.
type Recorder interface {
	ObserveRender(document string, err error, elapsed time.Duration)
}

// Options configures a Renderer.
type Options struct {
	Timeout  time.Duration
	Footer   string
	Location *time.Location
	Now      func() time.Time
	Recorder Recorder
	Logger   *slog.Logger
}

// Renderer turns resolved orders and stock reports into PDF documents.
type Renderer struct {
	engine   Engine
	tpl      *template.Template
	timeout  time.Duration
	footer   string
	loc      *time.Location
	now      func() time.Time
	recorder Recorder
	logger   *slog.Logger
}

// NewRenderer parses the document template and wires the engine.
func NewRenderer(engine Engine, opts Options) (*Renderer, error) {
	if engine == nil {
		return nil, errors.New("document renderer: engine required")
	}
	funcMap := template.FuncMap{
		"align": func(cols []Column, i int) string {
			if i < 0 || i >= len(cols) {
				return string(AlignLeft)
			}
			return string(cols[i].Align)
		},
	}
	tpl, err := template.New("table.html").Funcs(funcMap).ParseFS(web.Templates, "templates/documents/table.html")
	if err != nil {
		return nil, fmt.Errorf("document renderer: parse template: %w", err)
	}
	r := &Renderer{
		engine:   engine,
		tpl:      tpl,
		timeout:  opts.Timeout,
		footer:   opts.Footer,
		loc:      opts.Location,
		now:      opts.Now,
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = 30 * time.Second
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// RenderOrderDocument produces the PDF for an order in the requested layout.
func (r *Renderer) RenderOrderDocument(ctx context.Context, order *Order, kind Kind) (Output, error) {
	doc, err := BuildOrderDocument(order, kind, r.now().In(r.loc))
	if err != nil {
		return Output{}, err
	}
	return r.Render(ctx, doc)
}

// RenderStockDocument produces the PDF for a stock report.
func (r *Renderer) RenderStockDocument(ctx context.Context, report *StockReport, shopLabel string) (Output, error) {
	doc, err := BuildStockDocument(report, shopLabel, r.now().In(r.loc))
	if err != nil {
		return Output{}, err
	}
	return r.Render(ctx, doc)
}

// Render executes the template for doc and converts it through the engine.
func (r *Renderer) Render(ctx context.Context, doc *Document) (Output, error) {
	if doc == nil {
		return Output{}, shared.Validationf("document is required")
	}
	if doc.Footer == "" {
		doc.Footer = r.footer
	}

	start := time.Now()
	data, err := r.convert(ctx, doc)
	if r.recorder != nil {
		r.recorder.ObserveRender(doc.Name, err, time.Since(start))
	}
	if err != nil {
		r.logger.Error("render document", slog.String("document", doc.Name), slog.Any("error", err))
		return Output{}, err
	}
	return Output{
		Filename:    doc.Filename,
		ContentType: ContentType,
		Data:        data,
		Document:    doc,
	}, nil
}

// HTML returns the markup that would be sent to the engine for doc.
func (r *Renderer) HTML(doc *Document) (string, error) {
	buf := &bytes.Buffer{}
	if err := r.tpl.Execute(buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) convert(ctx context.Context, doc *Document) ([]byte, error) {
	html, err := r.HTML(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: execute template: %v", shared.ErrDocumentRender, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	session, err := r.engine.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire engine: %v", shared.ErrDocumentRender, err)
	}
	defer session.Release()

	pdf, err := session.Convert(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("%w: convert: %v", shared.ErrDocumentRender, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: engine returned an empty document", shared.ErrDocumentRender)
	}
	return pdf, nil
}

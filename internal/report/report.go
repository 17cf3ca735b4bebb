// Package report renders a computed mixture as a downloadable document.
//
// A Document is built from a successful computation only; solve failures
// never reach a renderer. Renderers are looked up by format name in a
// Registry.
package report

import (
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"mixconc/internal/mixture"
)

// DefaultExperimentName is used when a report is requested without a name.
const DefaultExperimentName = "Untitled experiment"

const maxFilenameLength = 100

// Metadata describes one generated report.
type Metadata struct {
	ID             uuid.UUID
	ExperimentName string
	GeneratedAt    time.Time
	Version        string
}

// Document is everything a renderer needs.
type Document struct {
	Metadata Metadata
	Request  mixture.Request
	Result   *mixture.Result
}

// NewDocument assembles a document for a successful computation.
func NewDocument(name string, req mixture.Request, res *mixture.Result, version string, now time.Time) *Document {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultExperimentName
	}
	return &Document{
		Metadata: Metadata{
			ID:             uuid.New(),
			ExperimentName: name,
			GeneratedAt:    now,
			Version:        version,
		},
		Request: req,
		Result:  res,
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_ -]+`)

// Filename is the download name for doc rendered with r: the experiment name
// with anything but letters, digits, spaces, dashes and underscores replaced, plus the renderer's extension.
func Filename(doc *Document, r Renderer) string {
	base := strings.Trim(unsafeFilenameChars.ReplaceAllString(doc.Metadata.ExperimentName, "_"), "_ ")
	if base == "" {
		base = "report"
	}
	if runes := []rune(base); len(runes) > maxFilenameLength {
		base = string(runes[:maxFilenameLength])
	}
	return base + "." + r.Extension()
}

// Renderer writes a document in one format.
type Renderer interface {
	Format() string
	ContentType() string
	Extension() string
	Render(w io.Writer, doc *Document) error
}

// Registry maps format names to renderers.
type Registry struct{ byFormat map[string]Renderer }

func NewRegistry() *Registry { return &Registry{byFormat: map[string]Renderer{}} }

// DefaultRegistry holds the pdf, csv and text renderers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPDFRenderer())
	r.Register(NewCSVRenderer())
	r.Register(NewTextRenderer())
	return r
}

func (r *Registry) Register(rd Renderer) { r.byFormat[rd.Format()] = rd }

func (r *Registry) Get(format string) (Renderer, bool) {
	rd, ok := r.byFormat[strings.ToLower(strings.TrimSpace(format))]
	return rd, ok
}

// Formats lists the registered format names in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.byFormat))
	for f := range r.byFormat {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

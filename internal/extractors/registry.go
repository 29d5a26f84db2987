// Package extractors provides per-format document text extraction and the
// extension-based dispatch between formats.
package extractors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/extractors/docx"
	"github.com/custodia-labs/copilot-cli/internal/extractors/eml"
	"github.com/custodia-labs/copilot-cli/internal/extractors/html"
	"github.com/custodia-labs/copilot-cli/internal/extractors/pdf"
	"github.com/custodia-labs/copilot-cli/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction by file extension over a closed set of
// format handlers. Extension is the only format signal trusted.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry over the given extractors. A later
// extractor claiming an already-registered extension wins.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
	}
	return r
}

// Defaults returns a registry with all built-in format handlers.
func Defaults() *Registry {
	return NewRegistry(
		plaintext.New(),
		html.New(),
		eml.New(),
		docx.New(),
		pdf.New(),
	)
}

// ForFilename returns the extractor for the filename's extension.
func (r *Registry) ForFilename(filename string) (driven.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	return e, nil
}

// Extensions returns all registered extensions, for upload validation and
// watch-mode filtering.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}

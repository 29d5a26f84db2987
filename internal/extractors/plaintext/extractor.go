// Package plaintext extracts text from plain text and markdown files,
// decoding with a best-guess character encoding.
package plaintext

import (
	"bytes"
	"context"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".md"}
}

// Extract decodes the raw bytes into text. Decoding is best-effort: UTF
// byte order marks are honoured, valid UTF-8 is taken as is, and anything
// else is decoded as Windows-1252, which never fails. No content yields an
// empty result, not an error.
func (e *Extractor) Extract(_ context.Context, content []byte, _ string) ([]driven.Segment, error) {
	text := decode(content)
	if len(bytes.TrimSpace([]byte(text))) == 0 {
		return nil, nil
	}

	return []driven.Segment{{Text: text, Page: 0, Type: domain.ChunkTypeText}}, nil
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decode guesses the character encoding and converts to a string.
func decode(content []byte) string {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return string(content[len(bomUTF8):])

	case bytes.HasPrefix(content, bomUTF16LE):
		return decodeUTF16(content, unicode.LittleEndian)

	case bytes.HasPrefix(content, bomUTF16BE):
		return decodeUTF16(content, unicode.BigEndian)

	case utf8.Valid(content):
		return string(content)

	default:
		// Universal default: every byte sequence is valid Windows-1252.
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
		if err != nil {
			return string(content)
		}
		return string(decoded)
	}
}

func decodeUTF16(content []byte, endianness unicode.Endianness) string {
	dec := unicode.UTF16(endianness, unicode.UseBOM).NewDecoder()
	decoded, err := dec.Bytes(content)
	if err != nil {
		return string(content)
	}
	return string(decoded)
}

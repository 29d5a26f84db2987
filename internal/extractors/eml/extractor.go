// Package eml extracts content from RFC 822 email files.
package eml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles EML (email) documents.
type Extractor struct{}

// New creates a new EML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".eml"}
}

// Extract parses the message and re-serialises it as a synthetic text block:
// structural headers first, then a blank line, then the body. Multipart
// messages contribute their first text/plain part; everything else uses the
// whole body.
func (e *Extractor) Extract(_ context.Context, content []byte, filename string) ([]driven.Segment, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, filename, err)
	}

	subject := decodeHeader(msg.Header.Get("Subject"))
	from := decodeHeader(msg.Header.Get("From"))
	to := decodeHeader(msg.Header.Get("To"))
	date := msg.Header.Get("Date")

	body, err := extractBody(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, filename, err)
	}

	text := fmt.Sprintf("Subject: %s\nFrom: %s\nTo: %s\nDate: %s\n\n%s",
		subject, from, to, date, body)

	return []driven.Segment{{Text: text, Page: 0, Type: domain.ChunkTypeEmail}}, nil
}

// decodeHeader decodes RFC 2047 encoded headers.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header // Return original if decoding fails
	}
	return decoded
}

// extractBody extracts the text content from an email message.
func extractBody(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable content type: read as plain text
		body, readErr := io.ReadAll(msg.Body)
		if readErr != nil {
			return "", readErr
		}
		return string(body), nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return firstPlainPart(msg.Body, params["boundary"])
	}

	body, err := io.ReadAll(msg.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// firstPlainPart returns the first text/plain part of a multipart body.
// A multipart message without one contributes an empty body.
func firstPlainPart(r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", nil
	}

	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", err
		}

		mediaType, _, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			part.Close()
			continue
		}

		if mediaType == "text/plain" {
			content, readErr := io.ReadAll(part)
			part.Close()
			if readErr != nil {
				return "", readErr
			}
			return string(content), nil
		}
		part.Close()
	}
}

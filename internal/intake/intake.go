// Package intake acknowledges entries captured by voice, photo or file.
// Captured content is not turned into records; the caller gets a receipt
// to show the user.
package intake

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

type Source string

const (
	SourceVoice Source = "voice"
	SourcePhoto Source = "photo"
	SourceFile  Source = "file"
)

var (
	ErrEmptyTranscript = errors.New("empty transcript")
	ErrMissingFile     = errors.New("missing file")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrUnknownSource   = errors.New("unknown intake source")
)

// Accept mirrors the file picker filter: images plus PDF and Word documents.
const Accept = "image/*,.pdf,.doc,.docx"

var documentExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Receipt is the acknowledgement shown to the user.
type Receipt struct {
	Source      Source `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Transcript  string `json:"transcript,omitempty"`
}

const pending = "Funcionalidade de processamento será implementada."

// AcknowledgeTranscript echoes a voice transcript back to the user.
func AcknowledgeTranscript(text string) (Receipt, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Receipt{}, ErrEmptyTranscript
	}
	return Receipt{
		Source:      SourceVoice,
		Title:       "Áudio capturado",
		Description: fmt.Sprintf("Texto: %q. %s", text, pending),
		Transcript:  text,
	}, nil
}

// AcknowledgeUpload accepts a photo or file upload if its type passes the
// picker filter.
func AcknowledgeUpload(source Source, filename, contentType string) (Receipt, error) {
	if source != SourcePhoto && source != SourceFile {
		return Receipt{}, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return Receipt{}, ErrMissingFile
	}

	ct, ok := Accepted(name, contentType)
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
	}
	return Receipt{
		Source:      source,
		Title:       "Arquivo recebido",
		Description: fmt.Sprintf("Arquivo %q foi carregado. %s", name, pending),
		Filename:    name,
		ContentType: ct,
	}, nil
}

// Accepted reports whether the upload matches Accept and returns the
// effective media type. The declared type wins for images; documents are
// matched by extension.
func Accepted(filename, contentType string) (string, bool) {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && strings.HasPrefix(mt, "image/") {
		return mt, true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := documentExtensions[ext]; ok {
		return ct, true
	}
	if ct := mime.TypeByExtension(ext); strings.HasPrefix(ct, "image/") {
		mt, _, _ := mime.ParseMediaType(ct)
		return mt, true
	}
	return "", false
}

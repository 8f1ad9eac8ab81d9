// Package http provides the local HTTP surface over the record service.
//
// This file implements utilities for parsing and validating HTTP request data.
// Bodies may be JSON or form-encoded; both map onto the same field names.

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"despesas/internal/core"
)

// maxBodyBytes bounds JSON and form bodies. Uploads have their own limit.
const maxBodyBytes = 1 << 20

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.IsJSONContent() || p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// IsJSONContent reports whether the declared content type is JSON.
func (p *RequestBodyParser) IsJSONContent() bool {
	return strings.HasPrefix(strings.ToLower(p.contentType), "application/json")
}

// Form maps the parsed body onto the manual entry form.
func (p *RequestBodyParser) Form() core.Form {
	return core.Form{
		ID:            p.Get("id"),
		Kind:          p.Get("kind"),
		Description:   p.Get("description"),
		Amount:        p.amount(),
		Date:          p.Get("date"),
		Category:      p.Get("category"),
		PaymentMethod: p.Get("paymentMethod"),
	}
}

// amount returns the amount field in the form's pt-BR shape. JSON clients
// may send a number, which is read with a dot decimal and rewritten as
// "12,50"; a negative number is dropped so validation rejects it.
func (p *RequestBodyParser) amount() string {
	if v, ok := p.jsonData["amount"].(float64); ok {
		if v < 0 {
			return ""
		}
		return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
	}
	return p.Get("amount")
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

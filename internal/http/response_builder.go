// Package http provides the local HTTP surface over the record service.
//
// This file implements the Builder Pattern for constructing responses. Every
// response carries a JSON envelope; notifications are mirrored into an
// HX-Trigger header so an HTMX front end can show them as toasts.

package http

import (
	"encoding/json"
	"net/http"

	"despesas/internal/services"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Data          any                     `json:"data,omitempty"`
	Error         string                  `json:"error,omitempty"`
	Notifications []services.Notification `json:"notifications,omitempty"`
}

// ResponseBuilder provides a fluent API for building responses.
type ResponseBuilder struct {
	triggers      map[string]any
	statusCode    int
	envelope      Envelope
	headers       map[string]string
	raw           []byte
	notifications []services.Notification
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *ResponseBuilder) Trigger(name string, data any) *ResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerRecordsChanged tells the list to reload.
func (b *ResponseBuilder) TriggerRecordsChanged() *ResponseBuilder {
	return b.Trigger("records:changed", struct{}{})
}

// TriggerFormReset adds the form:reset trigger.
func (b *ResponseBuilder) TriggerFormReset() *ResponseBuilder {
	return b.Trigger("form:reset", struct{}{})
}

// Notify appends notifications to the body and the show-notification trigger.
// Only the last one is shown as a toast; the body keeps them all.
func (b *ResponseBuilder) Notify(ns ...services.Notification) *ResponseBuilder {
	b.notifications = append(b.notifications, ns...)
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// Data sets the envelope payload.
func (b *ResponseBuilder) Data(v any) *ResponseBuilder {
	b.envelope.Data = v
	return b
}

// Error sets the envelope error message.
func (b *ResponseBuilder) Error(msg string) *ResponseBuilder {
	b.envelope.Error = msg
	return b
}

// Raw replaces the JSON envelope with a raw body, e.g. a file download.
func (b *ResponseBuilder) Raw(contentType string, body []byte) *ResponseBuilder {
	b.headers["Content-Type"] = contentType
	b.raw = body
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	if n := len(b.notifications); n > 0 {
		last := b.notifications[n-1]
		b.triggers["show-notification"] = map[string]any{
			"type":        string(last.Level),
			"title":       last.Title,
			"description": last.Description,
			"duration":    durationFor(last.Level),
		}
	}

	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	if b.raw != nil {
		w.WriteHeader(b.statusCode)
		_, _ = w.Write(b.raw)
		return
	}

	if b.statusCode == http.StatusNoContent {
		w.WriteHeader(b.statusCode)
		return
	}

	b.envelope.Notifications = b.notifications
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.envelope)
}

func durationFor(level services.Level) int {
	if level == services.LevelError {
		return 5000
	}
	return 3000
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).Error(message)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

package handler

import (
	"encoding/json"
	"net/http"
)

// Envelope is the success body shape.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, j.status, j.body)
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

type JSONOption func(*jsonResponse)

func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithMessage sets the envelope message.
func WithMessage(msg string) JSONOption {
	return func(r *jsonResponse) {
		if env, ok := r.body.(Envelope); ok {
			env.Message = msg
			r.body = env
		}
	}
}

// JSON wraps data in a success envelope with status 200.
func JSON(data any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusOK,
		body:   Envelope{Success: true, Data: data},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Created is JSON with status 201.
func Created(data any, msg string) Response {
	return JSON(data, WithJSONStatus(http.StatusCreated), WithMessage(msg))
}

// Message is a data-less success envelope.
func Message(msg string) Response {
	return JSON(nil, WithMessage(msg))
}

// RawJSON renders body as-is, without the envelope.
func RawJSON(status int, body any) Response {
	return jsonResponse{status: status, body: body}
}

// Error renders err through the handler's ErrorHandler.
func Error(err error) Response {
	return errorResponse{err: err}
}

type errorResponse struct{ err error }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }

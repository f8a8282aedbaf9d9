// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a request struct populated by binders,
// and returns a Response. Wrap converts it into an http.HandlerFunc:
//
//	r.Post("/blood-requests", handler.Wrap(h.create,
//		handler.WithBinders[handler.Context, CreateRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, CreateRequest](errs.Handle),
//	))
//
// Responses use the BloodLink envelope. Success bodies look like
//
//	{"success":true,"message":"...","data":{...}}
//
// and errors rendered by ErrorResponder look like
//
//	{"success":false,"status":"fail","code":"VALIDATION_ERROR","message":"...","timestamp":"...","errors":[...]}
package handler

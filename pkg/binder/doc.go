// Package binder fills request structs from the JSON body, the query string
// and chi path parameters. Binders are composed by handler.Wrap:
//
//	handler.Wrap(h.update,
//		handler.WithBinders[handler.Context, updateRequest](
//			binder.Path(),
//			binder.JSON(),
//		),
//	)
//
// Query fields use the `query` tag, path fields the `path` tag. Untagged
// fields fall back to the lower-cased field name; "-" skips a field.
package binder

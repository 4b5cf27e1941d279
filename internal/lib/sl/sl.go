// Package sl contains helpers for building structured slog fields, mainly
// for passing errors to the logger in a uniform shape.
package sl

import "log/slog"

// Err returns a slog.Attr with the key "error" and the error text as value.
//
// Example:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

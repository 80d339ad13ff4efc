// Package sloghandle includes handlers for slog.
package sloghandle

import (
	"context"
	"log/slog"
)

// DiscardHandler is used to automatically discard everything.
// It backs the "off" verbosity of the command.
type DiscardHandler struct{}

var Discard DiscardHandler

func (d DiscardHandler) Enabled(context.Context, slog.Level) bool {
	return false
}

func (d DiscardHandler) Handle(context.Context, slog.Record) error {
	return nil
}

func (d DiscardHandler) WithAttrs([]slog.Attr) slog.Handler {
	return Discard
}

func (d DiscardHandler) WithGroup(string) slog.Handler {
	return Discard
}

package project

import (
	"io"
	"log/slog"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// SyncContext carries the collaborators the project components share. It is
// passed explicitly to whoever needs it; cancellation travels separately as
// a context.Context on every blocking call.
type SyncContext struct {
	Cache   *Cache[*naotimes.ProjectDetail]
	Gateway naotimes.Gateway
	Logger  *slog.Logger
}

// NewSyncContext builds a SyncContext with a fresh cache using DefaultTTL.
func NewSyncContext(gw naotimes.Gateway, logger *slog.Logger) SyncContext {
	return SyncContext{
		Cache:   NewCache[*naotimes.ProjectDetail](DefaultTTL),
		Gateway: gw,
		Logger:  logger,
	}
}

func (sc SyncContext) log() *slog.Logger {
	if sc.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return sc.Logger
}

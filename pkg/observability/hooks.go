// Package observability provides hooks for metrics and tracing without
// binding the core libraries to any observability backend.
//
// Hooks are registered once at startup by main; libraries emit events
// through the package-level accessors. Defaults are no-ops, so instrumenting
// is strictly optional.
//
//	func main() {
//	    observability.SetStageHooks(&myStageHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// StageHooks receives events from the pipeline state machine.
type StageHooks interface {
	// OnStageStart fires when the orchestrator enters a stage.
	OnStageStart(ctx context.Context, requestID, stage string)

	// OnStageComplete fires when a stage finishes, with its wall-clock
	// duration and terminal error (nil on success or absorbed fallback).
	OnStageComplete(ctx context.Context, requestID, stage string, d time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnHit(ctx context.Context, key string)
	OnMiss(ctx context.Context, key string)
	OnSet(ctx context.Context, key string, size int)
}

// NoopStageHooks is the default StageHooks implementation.
type NoopStageHooks struct{}

func (NoopStageHooks) OnStageStart(context.Context, string, string)                          {}
func (NoopStageHooks) OnStageComplete(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks is the default CacheHooks implementation.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string)      {}
func (NoopCacheHooks) OnMiss(context.Context, string)     {}
func (NoopCacheHooks) OnSet(context.Context, string, int) {}

var (
	stageHooks StageHooks = NoopStageHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetStageHooks registers stage hooks. Call once at startup before running
// any pipeline.
func SetStageHooks(h StageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		stageHooks = h
	}
}

// SetCacheHooks registers cache hooks. Call once at startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Stage returns the registered stage hooks.
func Stage() StageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return stageHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op defaults. Primarily for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	stageHooks = NoopStageHooks{}
	cacheHooks = NoopCacheHooks{}
}

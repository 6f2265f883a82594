// Package router dispatches reassembled frames to registered handlers using
// keyword matching, since the producer offers no schema contract.
package router

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Balthazzahr/scry-daemon/internal/frame"
)

// Handler processes a frame that matched its key.
type Handler func(f frame.Frame) error

type route struct {
	key     string
	strict  bool
	handler Handler
}

// Router maps frames to handlers. Strict keys match only as direct top-level
// field names; loose keys match anywhere in the frame, including inside
// string scalars.
type Router struct {
	routes []route
	byKey  map[string]Handler
	logger *zap.Logger
}

// New creates a router.
func New(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		byKey:  make(map[string]Handler),
		logger: logger,
	}
}

// Register adds a handler for key. Registration order is dispatch order.
func (r *Router) Register(key string, strict bool, h Handler) {
	r.routes = append(r.routes, route{key: key, strict: strict, handler: h})
	r.byKey[key] = h
}

// Route dispatches a frame. If hint names a registered key, that handler
// runs first; its failure is logged and routing falls through to the keyword
// pass. Every matching keyword handler then runs independently, so one
// faulty handler never starves the rest.
func (r *Router) Route(f frame.Frame, hint string) {
	if hint != "" {
		if h, ok := r.byKey[hint]; ok {
			if err := r.invoke(hint, h, f); err == nil {
				return
			}
		}
	}

	for _, rt := range r.routes {
		var matched bool
		if rt.strict {
			matched = f.HasField(rt.key)
		} else {
			matched = f.Contains(rt.key)
		}
		if matched {
			_ = r.invoke(rt.key, rt.handler, f)
		}
	}
}

func (r *Router) invoke(key string, h Handler, f frame.Frame) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
			r.logger.Warn("handler panicked", zap.String("key", key), zap.Any("panic", rec))
		}
	}()
	if err = h(f); err != nil {
		r.logger.Warn("handler error", zap.String("key", key), zap.Error(err))
	}
	return err
}

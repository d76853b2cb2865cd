package world

import (
	"log"

	"github.com/san-kum/slingshot/internal/dynamo"
)

type Option func(*World)

// WithLogger sets the destination for diagnostics. The standard logger is
// used otherwise.
func WithLogger(l *log.Logger) Option {
	return func(w *World) { w.logger = l }
}

func WithMetrics(ms ...dynamo.Metric) Option {
	return func(w *World) { w.metrics = append(w.metrics, ms...) }
}

func WithObservers(obs ...dynamo.Observer) Option {
	return func(w *World) { w.observers = append(w.observers, obs...) }
}

// ObserverFunc adapts a function to dynamo.Observer.
type ObserverFunc func(dynamo.Frame)

func (f ObserverFunc) OnTick(fr dynamo.Frame) { f(fr) }

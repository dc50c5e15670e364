package cpu

import "errors"

var (
	ErrNoWorld       = errors.New("cpu tracer: no world attached")
	ErrTracerClosed  = errors.New("cpu tracer: tracer is closed")
	ErrQueueOverflow = errors.New("cpu tracer: block request queue is full")
)

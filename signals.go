package remap

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for adapter events.
var (
	SignalAdapterCreated    = capitan.NewSignal("remap.adapter.created", "Adapter compiled")
	SignalTransformStart    = capitan.NewSignal("remap.transform.start", "Transform beginning")
	SignalTransformComplete = capitan.NewSignal("remap.transform.complete", "Transform finished")
	SignalFormulaEnter      = capitan.NewSignal("remap.formula.enter", "Formula evaluation beginning")
	SignalFormulaExit       = capitan.NewSignal("remap.formula.exit", "Formula evaluation finished")
)

// Keys for typed event data.
var (
	KeySchemaKind = capitan.NewStringKey("schema_kind")
	KeySourceKind = capitan.NewStringKey("source_kind")
	KeyFieldCount = capitan.NewIntKey("field_count")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyError      = capitan.NewErrorKey("error")
	KeyPath       = capitan.NewStringKey("path")
	KeyOperator   = capitan.NewStringKey("operator")
	KeyDepth      = capitan.NewIntKey("depth")
)

// emitAdapterCreated emits an event when an adapter is compiled.
func emitAdapterCreated(ctx context.Context, schemaKind string, fields int) {
	capitan.Emit(ctx, SignalAdapterCreated,
		KeySchemaKind.Field(schemaKind),
		KeyFieldCount.Field(fields),
	)
}

// emitTransformStart emits an event when a transform begins.
func emitTransformStart(ctx context.Context, schemaKind, sourceKind string) {
	capitan.Emit(ctx, SignalTransformStart,
		KeySchemaKind.Field(schemaKind),
		KeySourceKind.Field(sourceKind),
	)
}

// emitTransformComplete emits an event when a transform finishes.
func emitTransformComplete(ctx context.Context, schemaKind, sourceKind string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySchemaKind.Field(schemaKind),
		KeySourceKind.Field(sourceKind),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalTransformComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalTransformComplete, fields...)
	}
}

// signalObserver forwards formula events to capitan.
type signalObserver struct{}

// SignalObserver returns an Observer that emits SignalFormulaEnter and
// SignalFormulaExit for every formula evaluation.
func SignalObserver() Observer {
	return signalObserver{}
}

func (signalObserver) FormulaEnter(ctx context.Context, ev FormulaEvent) {
	capitan.Emit(ctx, SignalFormulaEnter,
		KeyPath.Field(ev.Path),
		KeyOperator.Field(string(ev.Operator)),
		KeyDepth.Field(ev.Depth),
	)
}

func (signalObserver) FormulaExit(ctx context.Context, ev FormulaEvent) {
	fields := []capitan.Field{
		KeyPath.Field(ev.Path),
		KeyOperator.Field(string(ev.Operator)),
		KeyDepth.Field(ev.Depth),
	}
	if ev.Err != nil {
		fields = append(fields, KeyError.Field(ev.Err))
		capitan.Error(ctx, SignalFormulaExit, fields...)
		return
	}
	capitan.Emit(ctx, SignalFormulaExit, fields...)
}

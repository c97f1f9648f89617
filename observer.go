package remap

import (
	"context"
	"log/slog"
)

// logObserver traces formula evaluation through slog at debug level.
type logObserver struct {
	logger *slog.Logger
}

// LogObserver returns an Observer that writes one debug record per formula
// entry and exit. A nil logger uses slog.Default().
func LogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) FormulaEnter(ctx context.Context, ev FormulaEvent) {
	o.logger.DebugContext(ctx, "formula enter",
		slog.String("path", ev.Path),
		slog.String("operator", string(ev.Operator)),
		slog.Int("depth", ev.Depth),
	)
}

func (o *logObserver) FormulaExit(ctx context.Context, ev FormulaEvent) {
	if ev.Err != nil {
		o.logger.DebugContext(ctx, "formula failed",
			slog.String("path", ev.Path),
			slog.String("operator", string(ev.Operator)),
			slog.Int("depth", ev.Depth),
			slog.String("error", ev.Err.Error()),
		)
		return
	}
	o.logger.DebugContext(ctx, "formula exit",
		slog.String("path", ev.Path),
		slog.String("operator", string(ev.Operator)),
		slog.Int("depth", ev.Depth),
		slog.Bool("found", ev.Found),
		slog.Any("value", ev.Value),
	)
}

// multiObserver fans events out to several observers.
type multiObserver []Observer

// Observers combines observers into one. Nil entries are skipped.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multiObserver) FormulaEnter(ctx context.Context, ev FormulaEvent) {
	for _, o := range m {
		o.FormulaEnter(ctx, ev)
	}
}

func (m multiObserver) FormulaExit(ctx context.Context, ev FormulaEvent) {
	for _, o := range m {
		o.FormulaExit(ctx, ev)
	}
}

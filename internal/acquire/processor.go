package acquire

import (
	"context"
	"log/slog"

	"tubegrab/internal/logging"
)

// Processor runs the direct attempt and, only on a recoverable result, the
// fallback. Each call consumes exactly one Request.
type Processor struct {
	direct   Acquirer
	fallback Acquirer
	logger   *slog.Logger
}

// NewProcessor wires the two acquisition tiers.
func NewProcessor(direct, fallback Acquirer, logger *slog.Logger) *Processor {
	return &Processor{direct: direct, fallback: fallback, logger: logging.NewComponentLogger(logger, "acquire")}
}

// Process returns the direct result unless it is Recoverable, in which case
// the fallback runs exactly once and its result is returned.
func (p *Processor) Process(ctx context.Context, req Request) Result {
	res := p.direct.Acquire(ctx, req)
	if res.Kind != Recoverable {
		return res
	}
	logging.WithContext(ctx, p.logger).Debug("direct attempt recoverable", logging.Error(res.Err))
	return p.fallback.Acquire(ctx, req)
}

package middleware

import (
	"context"
	"log/slog"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/outbox"
)

// OutboxFlush gives each command an event batch and hands the batch to box
// once the command has succeeded. It must sit outside Transaction so that
// only committed changes produce events.
func OutboxFlush(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			batch := &outbox.Batch{}
			res, err := next.Dispatch(outbox.ContextWithBatch(ctx, batch), cmd)
			if err != nil {
				return nil, err
			}
			records := batch.Records()
			if len(records) == 0 {
				return res, nil
			}
			// The store change is already committed; a lost event is logged
			// rather than reported as a failed command.
			if err := box.Add(ctx, records...); err != nil && logger != nil {
				logger.Error("outbox add failed", "command", cmd.Key(), "events", len(records), "error", err)
			}
			return res, nil
		})
	}
}

package middleware

import (
	"context"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/policies"
)

// Metrics forwards counters from results implementing
// policies.MetricsReporter. Place it inside Idempotency so replays are not
// counted twice.
func Metrics(m policies.Metrics) CommandMiddleware {
	if m == nil {
		return nil
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if reporter, ok := res.(policies.MetricsReporter); ok {
				reporter.ReportMetrics(m)
			}
			return res, nil
		})
	}
}

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/choreworld/choreworld.github.io/internal/config"
	"github.com/choreworld/choreworld.github.io/internal/types"
)

// Delivery pairs one person's message with the endpoint it goes to.
type Delivery struct {
	Person   string
	Endpoint string
	Message  Message
}

// Result records the outcome of one delivery attempt.
type Result struct {
	Delivery Delivery
	Err      error
}

// Dispatcher fans a batch of deliveries out to the sink with bounded
// concurrency. One failed delivery never blocks the rest of the batch.
type Dispatcher struct {
	sink    Sink
	logger  *slog.Logger
	timeout time.Duration
	limit   int
	dryRun  bool
}

// NewDispatcher creates a Dispatcher using the ntfy settings for timeout
// and concurrency. In dry-run mode messages are logged but never sent.
func NewDispatcher(sink Sink, logger *slog.Logger, cfg config.NtfyConfig, dryRun bool) *Dispatcher {
	return &Dispatcher{
		sink:    sink,
		logger:  logger,
		timeout: cfg.Timeout,
		limit:   cfg.MaxConcurrency,
		dryRun:  dryRun,
	}
}

// Dispatch sends every delivery and returns one Result per delivery, in
// input order. The sink is called with a per-delivery timeout so one slow
// endpoint cannot stall the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, deliveries []Delivery) []Result {
	results := make([]Result, len(deliveries))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(d.limit)

	for i, delivery := range deliveries {
		results[i] = Result{Delivery: delivery}

		g.Go(func() error {
			// Endpoints are capability URLs; keep them out of logs.
			d.logger.Info("delivering notification",
				"person", delivery.Person,
				"title", delivery.Message.Title,
				"body", delivery.Message.Body,
				"dry_run", d.dryRun)

			if d.dryRun {
				return nil
			}

			dctx, cancel := context.WithTimeout(gCtx, d.timeout)
			defer cancel()

			if err := d.sink.Publish(dctx, delivery.Endpoint, delivery.Message); err != nil {
				d.logger.Error("notification delivery failed",
					"person", delivery.Person,
					"error", err)
				results[i].Err = err
			}

			// Do not propagate the error to the errgroup; the other
			// deliveries should still go out.
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// PlanWeekly pairs each person's weekly message with their registered
// endpoint. People missing from the endpoint table come back as pre-failed
// Results so the batch still reports them without aborting.
func PlanWeekly(collected []PersonChores, endpoints map[string]string) ([]Delivery, []Result) {
	var deliveries []Delivery
	var missing []Result

	for _, pc := range collected {
		msg := WeeklyMessage(pc.Person, pc.Chores)
		endpoint, ok := endpoints[pc.Person]
		if !ok || endpoint == "" {
			missing = append(missing, Result{
				Delivery: Delivery{Person: pc.Person, Message: msg},
				Err: types.NewAppError(types.ErrCodeNotifyEndpointMissing,
					fmt.Sprintf("no endpoint registered for %s", pc.Person), nil),
			})
			continue
		}
		deliveries = append(deliveries, Delivery{
			Person:   pc.Person,
			Endpoint: endpoint,
			Message:  msg,
		})
	}

	return deliveries, missing
}

// Failures filters results down to the failed deliveries.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// PartialFailure builds the batch summary error when some deliveries
// failed. Callers should return it only when Failures is non-empty.
func PartialFailure(failed []Result, total int) error {
	people := make([]string, len(failed))
	for i, r := range failed {
		people[i] = r.Delivery.Person
	}
	return types.NewAppErrorWithDetails(types.ErrCodeNotifyPartialFailure,
		fmt.Sprintf("%d of %d notifications failed", len(failed), total), nil,
		map[string]any{"people": people})
}

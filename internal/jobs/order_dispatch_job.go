package jobs

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	orderDispatchJobName = "order_dispatch"

	// DefaultDispatchSchedule runs auto-dispatch every 15 seconds.
	DefaultDispatchSchedule = "*/15 * * * * *"
	DefaultDispatchBatch    = 20
)

// PendingOrderLister finds orders still waiting for a driver.
type PendingOrderLister interface {
	ListPendingIDs(ctx context.Context, limit int) ([]kernel.UUID, error)
}

// Assigner runs one assignment request.
type Assigner interface {
	Handle(ctx context.Context, cmd commands.RequestAssignmentCommand) (commands.AssignmentResult, error)
}

// OrderDispatchJob periodically auto-assigns the oldest pending orders to the
// nearest dispatchable driver, acting as a system dispatcher.
type OrderDispatchJob struct {
	orders   PendingOrderLister
	assigner Assigner
	actor    access.Actor
	schedule string
	batch    int
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOrderDispatchJob(
	orders PendingOrderLister,
	assigner Assigner,
	actor access.Actor,
	schedule string,
	batch int,
	logger *slog.Logger,
) *OrderDispatchJob {
	if schedule == "" {
		schedule = DefaultDispatchSchedule
	}
	if batch < 1 {
		batch = DefaultDispatchBatch
	}
	return &OrderDispatchJob{
		orders:   orders,
		assigner: assigner,
		actor:    actor,
		schedule: schedule,
		batch:    batch,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "order_dispatch_job"),
	}
}

// Start schedules the job and starts the cron runner.
func (j *OrderDispatchJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		err := j.RunOnce(ctx)
		metrics.ObserveJobRun(orderDispatchJobName, err)
		if err != nil {
			j.logger.ErrorContext(ctx, "Order dispatch job failed", "error", err)
		}
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order dispatch job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running pass to finish.
func (j *OrderDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Order dispatch job stopped")
}

// RunOnce tries to assign each pending order in the batch. An order no
// driver can take, or one another request got to first, is left for the next
// pass. Other failures are joined into the returned error.
func (j *OrderDispatchJob) RunOnce(ctx context.Context) error {
	ids, err := j.orders.ListPendingIDs(ctx, j.batch)
	if err != nil {
		return err
	}

	var failures []error
	assigned := 0
	for _, id := range ids {
		cmd, err := commands.NewRequestAssignmentCommand(j.actor, id, nil, nil)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		res, err := j.assigner.Handle(ctx, cmd)
		switch {
		case err == nil:
			assigned++
			j.logger.InfoContext(ctx, "Order auto-assigned",
				"order_id", id.String(), "driver_id", res.DriverID.String(), "vehicle_id", res.VehicleID.String())
		case errors.Is(err, errs.ErrResourceUnavailable):
			// remaining orders wait for the next pass
			j.logger.DebugContext(ctx, "No dispatchable driver", "order_id", id.String())
			return errors.Join(failures...)
		case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrInvalidTransition):
			j.logger.DebugContext(ctx, "Order taken by another request", "order_id", id.String())
		default:
			failures = append(failures, err)
		}
	}

	if assigned > 0 {
		j.logger.InfoContext(ctx, "Order dispatch pass finished", "pending", len(ids), "assigned", assigned)
	}
	return errors.Join(failures...)
}

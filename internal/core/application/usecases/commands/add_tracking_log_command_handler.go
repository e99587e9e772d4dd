package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// AddTrackingLogCommandHandler stores a tracking log for an active delivery
// and moves the driver's last known position with it.
type AddTrackingLogCommandHandler struct {
	uowFactory  TrackingUoWFactory
	maxAttempts int
}

func NewAddTrackingLogCommandHandler(uowFactory TrackingUoWFactory, maxAttempts int) AddTrackingLogCommandHandler {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return AddTrackingLogCommandHandler{uowFactory: uowFactory, maxAttempts: maxAttempts}
}

func (h AddTrackingLogCommandHandler) Handle(ctx context.Context, cmd AddTrackingLogCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	return retryOnConflict(ctx, h.maxAttempts, func(ctx context.Context) (kernel.UUID, error) {
		return h.attempt(ctx, cmd)
	})
}

func (h AddTrackingLogCommandHandler) attempt(ctx context.Context, cmd AddTrackingLogCommand) (kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	dlv, err := uow.DeliveryRepository().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return kernel.UUID{}, err
	}

	drivers := uow.DriverRepository()
	driver, err := drivers.Get(ctx, dlv.DriverID())
	if err != nil {
		return kernel.UUID{}, err
	}

	actor := cmd.Actor()
	if err = actor.AuthorizeOwned(access.AddTrackingLog, driver.IsUser(actor.ID())); err != nil {
		return kernel.UUID{}, err
	}
	if !dlv.Status().IsActive() {
		return kernel.UUID{}, errs.NewResourceUnavailableError("delivery",
			"delivery is "+dlv.Status().String())
	}

	now := time.Now().UTC()
	log, err := delivery.NewTrackingLog(kernel.NewUUID(), dlv.ID(), cmd.Location(), cmd.Telemetry(), now)
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = driver.ReportLocation(cmd.Location(), now); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.TrackingLogRepository().Add(ctx, log); err != nil {
		return kernel.UUID{}, err
	}
	if err = drivers.Update(ctx, driver); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	return log.ID(), nil
}

package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/access"
)

type ReportDriverLocationCommandHandler struct {
	uowFactory  FleetUoWFactory
	maxAttempts int
}

func NewReportDriverLocationCommandHandler(uowFactory FleetUoWFactory, maxAttempts int) ReportDriverLocationCommandHandler {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return ReportDriverLocationCommandHandler{uowFactory: uowFactory, maxAttempts: maxAttempts}
}

// Handle stores the position. A concurrent reservation of the same driver
// makes the first attempt conflict; the retry reads the new version.
func (h ReportDriverLocationCommandHandler) Handle(ctx context.Context, cmd ReportDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := retryOnConflict(ctx, h.maxAttempts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.attempt(ctx, cmd)
	})
	return err
}

func (h ReportDriverLocationCommandHandler) attempt(ctx context.Context, cmd ReportDriverLocationCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	drivers := uow.DriverRepository()
	driver, err := drivers.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = cmd.Actor().AuthorizeOwned(access.ReportDriverLocation, driver.IsUser(cmd.Actor().ID())); err != nil {
		return err
	}

	if err = driver.ReportLocation(cmd.Location(), time.Now().UTC()); err != nil {
		return err
	}
	if err = drivers.Update(ctx, driver); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

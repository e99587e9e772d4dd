package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"
)

// ScanOutcome is what the scanner is shown. Cylinder fields are empty when
// no cylinder matched the codes.
type ScanOutcome struct {
	services.Verdict

	ScanID       *kernel.UUID
	CylinderID   *kernel.UUID
	SerialNumber string
	Status       cylinder.Status
	ScannedAt    time.Time
}

// ScanCylinderCommandHandler verifies a scanned cylinder and records the
// scan. Suspicion is computed from the stored scan log inside the same
// transaction that holds the cylinder row lock, so concurrent scans of one
// cylinder see each other.
type ScanCylinderCommandHandler struct {
	uowFactory  CylinderUoWFactory
	verifier    services.ScanVerifier
	maxAttempts int
}

func NewScanCylinderCommandHandler(
	uowFactory CylinderUoWFactory,
	verifier services.ScanVerifier,
	maxAttempts int,
) ScanCylinderCommandHandler {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return ScanCylinderCommandHandler{
		uowFactory:  uowFactory,
		verifier:    verifier,
		maxAttempts: maxAttempts,
	}
}

func (h ScanCylinderCommandHandler) Handle(ctx context.Context, cmd ScanCylinderCommand) (ScanOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return ScanOutcome{}, err
	}
	if _, err := cmd.Actor().Authorize(access.ScanCylinder); err != nil {
		return ScanOutcome{}, err
	}

	started := time.Now()
	outcome, err := retryOnConflict(ctx, h.maxAttempts, func(ctx context.Context) (ScanOutcome, error) {
		return h.attempt(ctx, cmd)
	})
	if err != nil {
		return ScanOutcome{}, err
	}
	metrics.ObserveScan(string(outcome.Result), time.Since(started))
	return outcome, nil
}

func (h ScanCylinderCommandHandler) attempt(ctx context.Context, cmd ScanCylinderCommand) (ScanOutcome, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ScanOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	cylinders := uow.CylinderRepository()
	c, err := cylinders.FindByCodesForUpdate(ctx, cmd.Lookup())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ScanOutcome{Verdict: services.NotFoundVerdict(), ScannedAt: now}, nil
	}
	if err != nil {
		return ScanOutcome{}, err
	}

	history, err := h.history(ctx, uow, c.ID(), now)
	if err != nil {
		return ScanOutcome{}, err
	}

	actor := cmd.Actor()
	location := cmd.Location()
	verdict := h.verifier.Verify(c, location, now, history)

	if err = c.RecordScan(actor.ID(), location, now); err != nil {
		return ScanOutcome{}, err
	}
	if verdict.Result != audit.ScanSuccess {
		c.FlagScan(actor.ID(), string(verdict.Result), verdict.Message, location, now)
	}
	if err = cylinders.Update(ctx, c); err != nil {
		return ScanOutcome{}, err
	}

	record := audit.ScanRecord{
		ID:              kernel.NewUUID(),
		CylinderID:      c.ID(),
		ScanType:        cmd.ScanType(),
		Result:          verdict.Result,
		ActorID:         actor.ID(),
		ActorRole:       actor.Role(),
		Location:        location,
		Address:         cmd.Address(),
		Message:         verdict.Message,
		Suspicious:      verdict.Suspicious,
		SuspicionReason: strings.Join(verdict.Reasons, "; "),
		Origin:          cmd.Origin(),
		ScannedAt:       now,
	}
	if err = uow.AuditRecorder().AppendScan(ctx, record); err != nil {
		return ScanOutcome{}, err
	}

	entry, err := audit.NewCylinderHistoryEntry(c.ID(), actor.ID(), audit.CylinderScanned, now)
	if err != nil {
		return ScanOutcome{}, err
	}
	entry.Location = &location
	entry.Notes = verdict.Message
	entry.Verification = &audit.Verification{
		ScanResult:   verdict.Result,
		IsSuspicious: verdict.Suspicious,
		Latitude:     location.Latitude(),
		Longitude:    location.Longitude(),
	}
	if err = uow.AuditRecorder().AppendCylinderHistory(ctx, entry); err != nil {
		return ScanOutcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ScanOutcome{}, err
	}

	id, scanID := c.ID(), record.ID
	return ScanOutcome{
		Verdict:      verdict,
		ScanID:       &scanID,
		CylinderID:   &id,
		SerialNumber: c.SerialNumber(),
		Status:       c.Status(),
		ScannedAt:    now,
	}, nil
}

// history reads what the tamper detector needs from the stored scans. The
// current scan is not stored yet, so it is never part of the count.
func (h ScanCylinderCommandHandler) history(
	ctx context.Context,
	uow CylinderUoW,
	cylinderID kernel.UUID,
	now time.Time,
) (services.ScanHistory, error) {
	recorder := uow.AuditRecorder()

	count, err := recorder.CountScansSince(ctx, cylinderID, h.verifier.Detector().WindowStart(now))
	if err != nil {
		return services.ScanHistory{}, err
	}
	last, err := recorder.LastScan(ctx, cylinderID)
	if err != nil {
		return services.ScanHistory{}, err
	}

	history := services.ScanHistory{RecentScans: count}
	if last != nil {
		history.Previous = &services.PreviousScan{Location: last.Location, ScannedAt: last.ScannedAt}
	}
	return history, nil
}

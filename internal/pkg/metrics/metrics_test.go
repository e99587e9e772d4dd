package metrics

import (
	"errors"
	"testing"
	"time"

	"dispatch/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{errs.NewResourceUnavailableError("driver", "none"), "unavailable"},
		{errs.NewConflictError("driver", "1"), "conflict"},
		{errs.NewInvalidTransitionError("order", "DELIVERED", "ON_ROUTE"), "invalid_transition"},
		{errs.NewPermissionDeniedError("1", "CUSTOMER", "assign"), "denied"},
		{errs.NewObjectNotFoundError("order", "1"), "not_found"},
		{errs.NewValueIsRequiredError("name"), "invalid"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err))
	}
}

func TestObserveAssignment(t *testing.T) {
	before := testutil.ToFloat64(assignments.WithLabelValues("auto", "unavailable"))

	ObserveAssignment("auto", errs.NewResourceUnavailableError("driver", "none"))

	assert.InDelta(t, before+1, testutil.ToFloat64(assignments.WithLabelValues("auto", "unavailable")), 1e-9)
}

func TestObserveScan(t *testing.T) {
	before := testutil.ToFloat64(scanResults.WithLabelValues("SUSPICIOUS"))

	ObserveScan("SUSPICIOUS", 12*time.Millisecond)

	assert.InDelta(t, before+1, testutil.ToFloat64(scanResults.WithLabelValues("SUSPICIOUS")), 1e-9)
}

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

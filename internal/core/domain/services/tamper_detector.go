package services

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

const (
	RapidScanReason        = "Multiple rapid scans detected - possible cloning attempt"
	ImpossibleTravelReason = "Impossible location change detected"
)

// TamperPolicy holds the suspicion thresholds.
type TamperPolicy struct {
	// RapidScanThreshold is the number of scans in Window (current one
	// included) that is still considered normal.
	RapidScanThreshold int
	Window             time.Duration
	MaxTravelKm        float64
}

func DefaultTamperPolicy() TamperPolicy {
	return TamperPolicy{
		RapidScanThreshold: 5,
		Window:             5 * time.Minute,
		MaxTravelKm:        50,
	}
}

// PreviousScan is the position and time of the last stored scan of a cylinder.
type PreviousScan struct {
	Location  kernel.GeoPoint
	ScannedAt time.Time
}

// ScanHistory is what the detector needs from the scan log. RecentScans
// counts stored scans inside the policy window, excluding the current one.
type ScanHistory struct {
	RecentScans int
	Previous    *PreviousScan
}

// Suspicion is the detector's verdict.
type Suspicion struct {
	Suspicious bool
	Reasons    []string
}

// TamperDetector flags clone-like scan patterns. It keeps no state: every
// verdict is derived from the scan history passed in.
type TamperDetector struct {
	policy TamperPolicy
}

func NewTamperDetector(policy TamperPolicy) TamperDetector {
	return TamperDetector{policy: policy}
}

func (d TamperDetector) Policy() TamperPolicy {
	return d.policy
}

// WindowStart is the lower bound of the rapid-scan window for a scan at at.
func (d TamperDetector) WindowStart(at time.Time) time.Time {
	return at.Add(-d.policy.Window)
}

// Detect evaluates a scan at location and at against history.
func (d TamperDetector) Detect(location kernel.GeoPoint, at time.Time, history ScanHistory) Suspicion {
	var s Suspicion

	if history.RecentScans+1 > d.policy.RapidScanThreshold {
		s.Reasons = append(s.Reasons, RapidScanReason)
	}

	if prev := history.Previous; prev != nil && at.Sub(prev.ScannedAt) <= d.policy.Window {
		if prev.Location.Distance(location) > d.policy.MaxTravelKm {
			s.Reasons = append(s.Reasons, ImpossibleTravelReason)
		}
	}

	s.Suspicious = len(s.Reasons) > 0
	return s
}

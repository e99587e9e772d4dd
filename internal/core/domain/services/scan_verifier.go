package services

import (
	"strings"
	"time"

	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
)

const (
	MessageVerified  = "Cylinder verified successfully"
	MessageNotFound  = "Cylinder not found"
	MessageTampered  = "Cylinder has been flagged as tampered"
	MessageAltered   = "Cylinder codes do not match the registered digest"
	MessageExpired   = "Cylinder has expired and must be inspected"
	MessageStolen    = "Cylinder has been reported stolen"
	suspiciousPrefix = "Warning: "
)

// Verdict is the outcome of verifying a scanned cylinder. Tampered,
// expired, stolen and suspicious cylinders are verdicts, never errors.
type Verdict struct {
	Result     audit.ScanResult
	Verified   bool
	Suspicious bool
	Reasons    []string
	Message    string
}

// NotFoundVerdict is returned when no cylinder matches the scanned code.
func NotFoundVerdict() Verdict {
	return Verdict{Result: audit.ScanFailed, Message: MessageNotFound}
}

// ScanVerifier runs the verification checks in a fixed order: tampered,
// expired, stolen, then the suspicion heuristics.
type ScanVerifier struct {
	detector TamperDetector
}

func NewScanVerifier(detector TamperDetector) ScanVerifier {
	return ScanVerifier{detector: detector}
}

func (v ScanVerifier) Detector() TamperDetector {
	return v.detector
}

func (v ScanVerifier) Verify(c *cylinder.Cylinder, location kernel.GeoPoint, at time.Time, history ScanHistory) Verdict {
	switch {
	case c.IsTampered():
		return Verdict{Result: audit.ScanTampered, Message: MessageTampered}
	case !c.VerifyDigest():
		return Verdict{Result: audit.ScanTampered, Message: MessageAltered}
	case c.IsExpired(at):
		return Verdict{Result: audit.ScanExpired, Verified: true, Message: MessageExpired}
	case c.Status() == cylinder.Stolen:
		return Verdict{Result: audit.ScanStolen, Message: MessageStolen}
	}

	s := v.detector.Detect(location, at, history)
	if s.Suspicious {
		return Verdict{
			Result:     audit.ScanSuspicious,
			Verified:   true,
			Suspicious: true,
			Reasons:    s.Reasons,
			Message:    suspiciousPrefix + strings.Join(s.Reasons, "; "),
		}
	}
	return Verdict{Result: audit.ScanSuccess, Verified: true, Message: MessageVerified}
}

package audit

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// OrderEvent classifies order history entries.
type OrderEvent string

const (
	OrderCreated      OrderEvent = "CREATED"
	OrderAssigned     OrderEvent = "ASSIGNED"
	OrderStatusChange OrderEvent = "STATUS_CHANGE"
)

func getOrderEvents() []OrderEvent {
	return []OrderEvent{OrderCreated, OrderAssigned, OrderStatusChange}
}

func ParseOrderEvent(s string) (OrderEvent, error) {
	normalized := OrderEvent(strings.ToUpper(strings.TrimSpace(s)))
	for _, e := range getOrderEvents() {
		if e == normalized {
			return e, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause("event type", fmt.Errorf("%q is not an order event", s))
}

// CylinderEvent classifies cylinder history entries.
type CylinderEvent string

const (
	CylinderRegistered         CylinderEvent = "REGISTERED"
	CylinderFilled             CylinderEvent = "FILLED"
	CylinderDelivered          CylinderEvent = "DELIVERED"
	CylinderReturned           CylinderEvent = "RETURNED"
	CylinderScanned            CylinderEvent = "SCANNED"
	CylinderInspected          CylinderEvent = "INSPECTED"
	CylinderMaintenance        CylinderEvent = "MAINTENANCE"
	CylinderStatusChange       CylinderEvent = "STATUS_CHANGE"
	CylinderCustomerAssigned   CylinderEvent = "CUSTOMER_ASSIGNED"
	CylinderCustomerUnassigned CylinderEvent = "CUSTOMER_UNASSIGNED"
	CylinderTamperDetected     CylinderEvent = "TAMPER_DETECTED"
	CylinderLocationUpdate     CylinderEvent = "LOCATION_UPDATE"
)

func getCylinderEvents() []CylinderEvent {
	return []CylinderEvent{
		CylinderRegistered, CylinderFilled, CylinderDelivered, CylinderReturned,
		CylinderScanned, CylinderInspected, CylinderMaintenance, CylinderStatusChange,
		CylinderCustomerAssigned, CylinderCustomerUnassigned, CylinderTamperDetected,
		CylinderLocationUpdate,
	}
}

func ParseCylinderEvent(s string) (CylinderEvent, error) {
	normalized := CylinderEvent(strings.ToUpper(strings.TrimSpace(s)))
	for _, e := range getCylinderEvents() {
		if e == normalized {
			return e, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause("event type", fmt.Errorf("%q is not a cylinder event", s))
}

// ScanType is how the code was read.
type ScanType string

const (
	ScanIdentityCode ScanType = "IDENTITY_CODE"
	ScanTagCode      ScanType = "TAG_CODE"
	ScanManual       ScanType = "MANUAL"
)

func ParseScanType(s string) (ScanType, error) {
	switch t := ScanType(strings.ToUpper(strings.TrimSpace(s))); t {
	case ScanIdentityCode, ScanTagCode, ScanManual:
		return t, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("scan type", fmt.Errorf("%q is not a scan type", s))
	}
}

// ScanResult is the verdict of a scan. Only Failed means the code was not recognised.
type ScanResult string

const (
	ScanSuccess    ScanResult = "SUCCESS"
	ScanFailed     ScanResult = "FAILED"
	ScanSuspicious ScanResult = "SUSPICIOUS"
	ScanTampered   ScanResult = "TAMPERED"
	ScanExpired    ScanResult = "EXPIRED"
	ScanStolen     ScanResult = "STOLEN"
)

func ParseScanResult(s string) (ScanResult, error) {
	switch r := ScanResult(strings.ToUpper(strings.TrimSpace(s))); r {
	case ScanSuccess, ScanFailed, ScanSuspicious, ScanTampered, ScanExpired, ScanStolen:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("scan result", fmt.Errorf("%q is not a scan result", s))
	}
}

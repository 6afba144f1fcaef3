package domain

// Status is the derived three-level health of an asset.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// DefaultNearExpiryDays is how many days before an expiry date an asset
// starts reporting a warning.
const DefaultNearExpiryDays = 30

// Policy parameterizes ComputeStatus.
type Policy struct {
	// NearExpiryDays applies uniformly to warranty, end-of-life and
	// maintenance horizons.
	NearExpiryDays int
}

// DefaultPolicy returns the unified 30-day policy.
func DefaultPolicy() Policy {
	return Policy{NearExpiryDays: DefaultNearExpiryDays}
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusHealthy, StatusWarning, StatusCritical:
		return true
	}
	return false
}

// ComputeStatus classifies an asset from its lifecycle dates.
// Rules are evaluated in order and the first match wins; a passed
// end-of-life or warranty is critical, anything expired or expiring
// within the policy horizon is a warning.
func ComputeStatus(a Asset, today Date, p Policy) Status {
	maintenance := a.MaintenanceContract.ExpiryDate
	hasMaintenance := !maintenance.IsZero()

	if today.After(a.EndOfLife) {
		return StatusCritical
	}
	if today.After(a.WarrantyExpiry) {
		return StatusCritical
	}
	if hasMaintenance && today.After(maintenance) {
		return StatusWarning
	}
	if DaysUntil(a.WarrantyExpiry, today) <= p.NearExpiryDays {
		return StatusWarning
	}
	if DaysUntil(a.EndOfLife, today) <= p.NearExpiryDays {
		return StatusWarning
	}
	if hasMaintenance && DaysUntil(maintenance, today) <= p.NearExpiryDays {
		return StatusWarning
	}
	return StatusHealthy
}

// StatusLabel is the human readable name shown next to a status.
func StatusLabel(s Status) string {
	switch s {
	case StatusHealthy:
		return "Healthy"
	case StatusWarning:
		return "Attention Needed"
	case StatusCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

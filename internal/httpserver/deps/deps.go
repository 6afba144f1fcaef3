package deps

import (
	"time"

	"github.com/MrSnakeDoc/hwtrack/internal/inventory"
	"github.com/MrSnakeDoc/hwtrack/internal/logger"
	"github.com/MrSnakeDoc/hwtrack/internal/metrics"
)

type Deps struct {
	Logger             logger.Logger
	StartTime          time.Time
	Version            string
	Commit             string
	BuildDate          string
	GoVersion          string
	TimeNow            func() time.Time // for testing, defaults to time.Now
	AllowedHosts       []string         // Host headers allowed to access the server
	AllowedCIDRS       []string         // IPs allowed to access the API and probes
	TrustProxy         bool             // true if running behind a trusted reverse proxy
	RateLimitBurst     int              // bucket size for mutating endpoints
	RateLimitPerMinute int              // refill rate for mutating endpoints
	Store              *inventory.Store // asset inventory
	Metrics            *metrics.Metrics // nil disables /metrics
}

// Now returns the current time from TimeNow, or time.Now when unset.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}

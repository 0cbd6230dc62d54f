package constants

import "time"

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixLivePosition CachePrefix = "LIVE_POS_"
)

// Defaults for the flight core. All of them can be overridden through config.
const (
	DefaultRequestTimeout       = 30 * time.Second
	DefaultResourceTimeout      = 60 * time.Second
	DefaultMonitorPollInterval  = 60 * time.Second
	DefaultLivePositionInterval = 10 * time.Second
	DefaultPurgeInterval        = time.Hour
	DefaultReachabilityInterval = 15 * time.Second
	DefaultFlightCacheHours     = 24
	DefaultAirportCacheHours    = 168
	DefaultMaxSearchHistory     = 20
	DefaultRecentSearchLimit    = 10
	DefaultMonitorConcurrency   = 2
	DefaultAviationStackRPS     = 1.0
	DefaultHTTPRateLimitRPS     = 5.0
	DefaultHTTPRateLimitBurst   = 10
	DefaultAviationStackBaseURL = "https://api.aviationstack.com/v1"
	DefaultOpenSkyBaseURL       = "https://opensky-network.org/api"
	DefaultReachabilityCheckURL = "https://opensky-network.org"
	StatusChangeStream          = "skypulse:status_changes"
)

package recruitment

import "time"

// MinPodMembers is the smallest confirmed set that is materialized into a pod.
const MinPodMembers = 2

// MaxTeamSizeLimit caps the team size a posting may request.
const MaxTeamSizeLimit = 50

// DefaultPodName is used when a posting has no title.
const DefaultPodName = "Team Pod"

// Config holds recruitment domain configuration.
type Config struct {
	// DefaultPodCapacity is used when a posting carries no team size.
	DefaultPodCapacity int

	// CascadeRetries is how many times pod cascade deletion is attempted
	// when storage fails.
	CascadeRetries int

	// CascadeRetryDelay is the base delay between cascade attempts.
	CascadeRetryDelay time.Duration

	// StatsRefreshTimeout bounds each post-tick statistics refresh call.
	StatsRefreshTimeout time.Duration

	// ReconcileBatchSize caps how many expired postings one pass loads.
	ReconcileBatchSize int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultPodCapacity:  5,
		CascadeRetries:      3,
		CascadeRetryDelay:   100 * time.Millisecond,
		StatsRefreshTimeout: 5 * time.Second,
		ReconcileBatchSize:  500,
	}
}

// applyDefaults replaces unset or out-of-range values with their defaults.
func (c *Config) applyDefaults() {
	if c.DefaultPodCapacity < MinPodMembers {
		c.DefaultPodCapacity = 5
	}
	if c.CascadeRetries <= 0 {
		c.CascadeRetries = 3
	}
	if c.CascadeRetryDelay < 0 {
		c.CascadeRetryDelay = 100 * time.Millisecond
	}
	if c.StatsRefreshTimeout <= 0 {
		c.StatsRefreshTimeout = 5 * time.Second
	}
	if c.ReconcileBatchSize <= 0 {
		c.ReconcileBatchSize = 500
	}
}

package lookup

// Threshold is the staleness window in seconds: cached records older than this are
// refreshed from the market before being served.
const Threshold int64 = 1800

// IsStale reports whether a record written at lastUpdate (Unix seconds) must be
// refreshed at now. Negative elapsed time, i.e. a clock that moved backwards, never
// makes a record stale.
func IsStale(lastUpdate, now int64) bool {
	return now-lastUpdate > Threshold
}

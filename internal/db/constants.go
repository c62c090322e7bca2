package db

const (
	// sqlTimeLayout is how timestamps are stored so SQLite's date functions
	// can compare them. Values are always UTC.
	sqlTimeLayout = "2006-01-02 15:04:05"

	// sqlSinceClause filters inference_calls by a datetime('now', ?) window.
	sqlSinceClause = "WHERE timestamp >= datetime('now', ?)"
)

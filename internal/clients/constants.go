package clients

import "time"

const (
	MAX_RETRIES       = 3
	RETRY_BACKOFF     = 250 * time.Millisecond
	PING_TIMEOUT      = 3 * time.Second
	DEFAULT_CACHE_TTL = 24 * time.Hour
)

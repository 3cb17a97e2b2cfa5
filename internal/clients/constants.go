package clients

import "time"

const (
	USER_AGENT      = "Mozilla/5.0 (compatible; ThreadScope/1.0)"
	REQUEST_TIMEOUT = 30 * time.Second
)

package httpapi

import (
	"strconv"
	"time"
)

// retryAfterSeconds arredonda para cima; Retry-After nunca sai com 0.
func retryAfterSeconds(d time.Duration) string {
	secs := int64((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}

package httpclient

import (
	"net/http"
	"strconv"
	"time"
)

// ParseAzureHeaders extracts rate limit info from Azure service response
// headers. Retry-After carries either a delay in seconds or an HTTP-date;
// throttled deployments additionally expose a millisecond variant.
func ParseAzureHeaders(headers http.Header) RateLimitInfo {
	info := RateLimitInfo{}

	if retryAfterMS := headers.Get("retry-after-ms"); retryAfterMS != "" {
		if ms, err := strconv.Atoi(retryAfterMS); err == nil {
			info.RetryAfter = time.Duration(ms) * time.Millisecond
		}
	}

	if info.RetryAfter == 0 {
		if retryAfter := headers.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil {
				info.RetryAfter = time.Duration(seconds) * time.Second
			} else if at, err := http.ParseTime(retryAfter); err == nil {
				info.ResetTime = at.Unix()
			}
		}
	}

	if remaining := headers.Get("x-ms-ratelimit-remaining-requests"); remaining != "" {
		if n, err := strconv.Atoi(remaining); err == nil {
			info.RequestsRemaining = n
		}
	}

	return info
}

package fetch

import "fmt"

// BlockedError reports that the origin refused the request (403) after the
// retry budget was exhausted. Likely a durable block.
type BlockedError struct {
	URL string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("blocked by origin (403) for URL: %s", e.URL)
}

// RateLimitedError reports that the origin throttled the request (429) after
// the retry budget was exhausted.
type RateLimitedError struct {
	URL string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited (429) for URL: %s", e.URL)
}

// TransportError reports a network fault or an unexpected HTTP status.
// Status is zero for transport-level faults; Err is nil for status errors.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed for URL: %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("unexpected status %d for URL: %s", e.Status, e.URL)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

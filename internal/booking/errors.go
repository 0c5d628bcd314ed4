package booking

import "fmt"

// TransportError reports a non-success HTTP status from any endpoint
// the pipeline talks to.
type TransportError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: unexpected status %s", e.URL, e.Status)
}

// MalformedResponseError reports a schedule response whose `results`
// field is present but not an array, or a body that does not decode.
type MalformedResponseError struct {
	URL    string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.URL, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// StartTimeError reports a schedule entry whose start_time is present
// but does not parse as an ISO-8601 timestamp with offset. A missing
// start_time is not an error; the entry is skipped instead.
type StartTimeError struct {
	Token string
	Value string
	Err   error
}

func (e *StartTimeError) Error() string {
	return fmt.Sprintf("invalid start_time %q on event %q: %v", e.Value, e.Token, e.Err)
}

func (e *StartTimeError) Unwrap() error {
	return e.Err
}

package mintos

import "fmt"

// Fatal login failures. Neither is retried internally; the caller decides
// whether a fresh login attempt is worth it.
var (
	ErrInvalidCredentials    = fmt.Errorf("the marketplace rejected the supplied credentials")
	ErrChallengeUnresolvable = fmt.Errorf("the login challenge could not be resolved automatically")
	ErrNotFound              = fmt.Errorf("no record exists for the requested identifier")
)

// ValidationError reports a malformed or out-of-range filter value. It is
// raised before any network call is made.
type ValidationError struct {
	Param  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Param, e.Reason)
}

// AvailabilityError means an expected page marker never showed up within its
// timeout, or the site was unreachable. Distinct from ErrInvalidCredentials
// so callers can sensibly retry a whole login.
type AvailabilityError struct {
	Step string
	Err  error
}

func (e AvailabilityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("marketplace unavailable during %s: %s", e.Step, e.Err.Error())
	}
	return fmt.Sprintf("marketplace unavailable during %s", e.Step)
}

func (e AvailabilityError) Unwrap() error { return e.Err }

// ServerError carries a server-reported error payload verbatim. Any page of
// a multi-page retrieval failing this way aborts the whole retrieval.
type ServerError struct {
	Message string
}

func (e ServerError) Error() string {
	return fmt.Sprintf("marketplace reported an error: %s", e.Message)
}

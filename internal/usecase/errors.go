package usecase

import "github.com/cockroachdb/errors"

// Sentinels are attached with errors.Mark or errors.Wrap so callers keep
// their own message while the HTTP layer maps the class to a status.
var (
	// ErrInvalidInput covers bad ids, seasons, outlooks and disallowed files.
	ErrInvalidInput          = errors.New("invalid input")
	// ErrNotFound is returned for unknown teams, players, runs and blobs.
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	// ErrDependencyUnavailable means no snapshot is published yet or an
	// upstream source cannot be reached.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrMisconfigured is a deployment problem, such as a missing blob
	// connection string, surfaced at request time.
	ErrMisconfigured         = errors.New("server misconfigured")
)

var errorReasons = []struct {
	sentinel error
	reason   string
}{
	{ErrInvalidInput, "invalid_input"},
	{ErrNotFound, "not_found"},
	{ErrUnauthorized, "unauthorized"},
	{ErrMisconfigured, "misconfigured"},
	{ErrDependencyUnavailable, "dependency_unavailable"},
}

// Reason returns a stable label for the sentinel err carries, or "internal".
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range errorReasons {
		if errors.Is(err, r.sentinel) {
			return r.reason
		}
	}
	return "internal"
}

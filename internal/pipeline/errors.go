package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest wraps request validation failures: unknown interval,
// unsupported year window, empty ticker. The API layer maps these to 400.
var ErrInvalidRequest = errors.New("invalid request")

// FatalDataError is the unrecoverable tier of data failures: the ticker has
// no price history at all (unknown symbol, delisted, provider outage). Any
// other data gap degrades the affected section with a warning instead.
type FatalDataError struct {
	Ticker string
	Err    error
}

func (e *FatalDataError) Error() string {
	return fmt.Sprintf("no usable data for %q: %v", e.Ticker, e.Err)
}

func (e *FatalDataError) Unwrap() error { return e.Err }

// IsFatal reports whether err is (or wraps) a FatalDataError.
func IsFatal(err error) bool {
	var fe *FatalDataError
	return errors.As(err, &fe)
}

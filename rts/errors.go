package rts

import "github.com/pkg/errors"

var (
	// ErrSanity means the rows do not look like a Somfy RTS frame at all: no
	// row of a known length, or no preamble where one is expected.
	ErrSanity = errors.New("sanity check failed")
	// ErrIntegrity means a frame was found but its payload failed to decode
	// or checksum.
	ErrIntegrity = errors.New("integrity check failed")
)

func IsSanity(err error) bool {
	return errors.Cause(err) == ErrSanity
}

func IsIntegrity(err error) bool {
	return errors.Cause(err) == ErrIntegrity
}

// Result names the outcome of a decode for logging and metrics.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsSanity(err):
		return "sanity"
	case IsIntegrity(err):
		return "integrity"
	default:
		return "error"
	}
}

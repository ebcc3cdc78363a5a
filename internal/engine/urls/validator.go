package urls

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	ErrEmptyTarget   = errors.New("target URL is required")
	ErrInvalidTarget = errors.New("invalid target URL")
)

// ValidateTarget checks that target is an absolute http(s) URL that
// fits the storage column.
func ValidateTarget(target string) error {
	if target == "" {
		return ErrEmptyTarget
	}
	if len(target) > MaxTargetLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidTarget, MaxTargetLength)
	}

	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: the address must start with http:// or https://", ErrInvalidTarget)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidTarget)
	}
	return nil
}

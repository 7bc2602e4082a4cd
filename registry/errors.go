package registry

import (
	"errors"
	"fmt"
)

// ErrServiceNotFound is matched by every NotFoundError.
var ErrServiceNotFound = errors.New("service not found")

// ErrConnReleased is returned by a Conn used after Release.
var ErrConnReleased = errors.New("registry: connection already released")

// NotFoundError reports a service id that has no record, or no location in
// the requested network.
type NotFoundError struct {
	ServiceID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("service %q not found", e.ServiceID)
}

// Is makes errors.Is(err, ErrServiceNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrServiceNotFound
}

func notFound(id string) error {
	return &NotFoundError{ServiceID: id}
}

// NotFoundID returns the offending service id when err is a NotFoundError.
func NotFoundID(err error) (string, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.ServiceID, true
	}
	return "", false
}

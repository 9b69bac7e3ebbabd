package registry

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned when a name is not part of the registry.
var ErrUnknownType = errors.New("unknown type")

// DefinitionError reports a configuration defect in a registry entry:
// a dangling reference, a malformed expression, a duplicate name or an
// alias cycle. Such a defect would otherwise surface downstream as a
// decoding failure in the chain client.
type DefinitionError struct {
	Name   string
	Reason string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("registry: %s: %s", e.Name, e.Reason)
}

// IsDefinitionError checks whether err is (or wraps) a DefinitionError
// and returns it.
func IsDefinitionError(err error) (*DefinitionError, bool) {
	var d *DefinitionError
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

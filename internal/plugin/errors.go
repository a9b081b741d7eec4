package plugin

import (
	"fmt"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// Context keys set on plugin failures.
const (
	KeyPlugin    = "plugin"
	KeyOperation = "operation"
)

// failure classifies err raised by the named plugin during operation.
func failure(name, operation string, err error) error {
	return errors.WrapError(err, errors.CategoryPlugin, fmt.Sprintf("plugin %s failed during %s", name, operation)).
		WithContext(KeyPlugin, name).
		WithContext(KeyOperation, operation).
		Build()
}

package netcdf

import (
	"strings"
	"unicode/utf8"

	"github.com/apexys/netcdf/errors"
)

// maxNameLen matches the engine's NC_MAX_NAME limit.
const maxNameLen = 256

// validateName rejects names the engine would refuse, before any gate
// acquisition.
func validateName(op, name string) error {
	switch {
	case name == "":
		return errors.InvalidName(op, name, "name is empty")
	case len(name) > maxNameLen:
		return errors.InvalidName(op, name, "name exceeds 256 bytes")
	case !utf8.ValidString(name):
		return errors.InvalidName(op, name, "name is not valid UTF-8")
	case strings.ContainsRune(name, '/'):
		return errors.InvalidName(op, name, "name contains '/'")
	case strings.ContainsRune(name, 0):
		return errors.InvalidName(op, name, "name contains NUL")
	}
	return nil
}

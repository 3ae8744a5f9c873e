package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// Agent names may only contain letters, numbers and hyphens. The policy is
// enforced on the fully qualified name, after prefix/suffix composition.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9-]*$`)

// ValidateName reports an error when name contains characters outside the
// allowed set.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid agent name %q; only letters, numbers and hyphens are allowed", name)
	}
	return nil
}

// FullName composes the service-side agent name from a base name and the
// configured prefix/suffix.
func FullName(base, prefix, suffix string) string {
	return prefix + base + suffix
}

// TrimName strips a matching prefix from the start and a matching suffix
// from the end of name, each at most once. A suffix equal to the whole name
// is stripped once, never recursively.
func TrimName(name, prefix, suffix string) string {
	if prefix != "" && strings.HasPrefix(name, prefix) {
		name = name[len(prefix):]
	}
	if suffix != "" && strings.HasSuffix(name, suffix) {
		name = name[:len(name)-len(suffix)]
	}
	return name
}

package engine

import "fmt"

// ParseRoles turns user supplied role names into an ordered preference list,
// reporting the first name that does not parse.
func ParseRoles(names []string) ([]Role, error) {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r, ok := ParseRole(n)
		if !ok {
			return nil, &InvalidInputError{Err: fmt.Errorf("%w: %q", ErrUnknownRole, n)}
		}
		roles = append(roles, r)
	}
	return roles, nil
}

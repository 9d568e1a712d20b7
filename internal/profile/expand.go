package profile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gopatchy/springcfg/pkg/errors"
)

// CycleError reports a circular profile group reference. Path holds the
// ancestor chain ending with the repeated profile.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Path, " -> "), errors.ErrCircularProfileGroup)
}

func (e *CycleError) Unwrap() error {
	return errors.ErrCircularProfileGroup
}

// Expand resolves the requested profile list against group definitions.
// Each profile is emitted before its group members, members expand
// depth-first in declared order, and a profile already emitted is
// skipped entirely. A profile reappearing in its own ancestor chain is
// a CycleError.
func Expand(requested []string, groups Groups) ([]string, error) {
	result := []string{}
	seen := map[string]struct{}{}

	var expand func(profile string, path []string) error
	expand = func(profile string, path []string) error {
		if slices.Contains(path, profile) {
			return &CycleError{Path: append(slices.Clone(path), profile)}
		}

		if _, found := seen[profile]; found {
			return nil
		}

		seen[profile] = struct{}{}
		result = append(result, profile)

		childPath := append(slices.Clone(path), profile)

		for _, member := range groups[profile] {
			err := expand(member, childPath)
			if err != nil {
				return err
			}
		}

		return nil
	}

	for _, profile := range requested {
		err := expand(profile, nil)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

/*package version tracks the version of bathyprof so that config files written
for one release aren't silently used by another.*/
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SourceVersion is the semantic version number of the source code. Every
// config file carries the version it was written for in its 'Version'
// variable.
const SourceVersion = "0.1.0"

var (
	// ErrInvalid is returned when a version string isn't three
	// period-separated non-negative integers.
	ErrInvalid = errors.New("version string does not take the form of " +
		"three period-separated non-negative numbers")
	// ErrMismatch is returned when a config file was written for a
	// different release than the one reading it.
	ErrMismatch = errors.New("config version does not match the source")
)

// Parse splits a semantic version string into its three components.
func Parse(s string) (major, minor, patch int, err error) {
	toks := strings.Split(s, ".")
	if len(toks) != 3 {
		return -1, -1, -1, fmt.Errorf("%w: '%s'", ErrInvalid, s)
	}

	nums := [3]int{}
	for i, tok := range toks {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 {
			return -1, -1, -1, fmt.Errorf("%w: '%s'", ErrInvalid, s)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

// Later returns true if s1 represents a later version of the source than
// s2. An error is returned if either is invalid.
func Later(s1, s2 string) (bool, error) {
	major1, minor1, patch1, err := Parse(s1)
	if err != nil {
		return false, err
	}
	major2, minor2, patch2, err := Parse(s2)
	if err != nil {
		return false, err
	}

	switch {
	case major1 != major2:
		return major1 > major2, nil
	case minor1 != minor2:
		return minor1 > minor2, nil
	}
	return patch1 > patch2, nil
}

// Check returns nil if a config file's version string matches
// SourceVersion. Otherwise the error says whether the file was written for
// an older or a newer release.
func Check(s string) error {
	newer, err := Later(s, SourceVersion)
	if err != nil {
		return err
	}
	older, _ := Later(SourceVersion, s)

	switch {
	case newer:
		return fmt.Errorf("%w: the file is for %s, which is newer than "+
			"this build (%s)", ErrMismatch, s, SourceVersion)
	case older:
		return fmt.Errorf("%w: the file is for %s, which is older than "+
			"this build (%s)", ErrMismatch, s, SourceVersion)
	}
	return nil
}

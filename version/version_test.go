package version

import (
	"errors"
	"testing"
)

func TestSourceVersionValid(t *testing.T) {
	if _, _, _, err := Parse(SourceVersion); err != nil {
		t.Errorf("SourceVersion '%s' can't be parsed: %s", SourceVersion, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		s                   string
		major, minor, patch int
		valid               bool
	}{
		{"0.1.0", 0, 1, 0, true},
		{"10.02.3", 10, 2, 3, true},
		{"", 0, 0, 0, false},
		{"1", 0, 0, 0, false},
		{"0.1", 0, 0, 0, false},
		{"0.1.0.0", 0, 0, 0, false},
		{"0.-1.0", 0, 0, 0, false},
		{"v0.1.0", 0, 0, 0, false},
		{"0.1.x", 0, 0, 0, false},
	}

	for i := range tests {
		major, minor, patch, err := Parse(tests[i].s)
		switch {
		case err != nil && tests[i].valid:
			t.Errorf("%d) Expected Parse('%s') to be valid. Got %s.",
				i, tests[i].s, err)
		case err == nil && !tests[i].valid:
			t.Errorf("%d) Expected Parse('%s') to give an error.",
				i, tests[i].s)
		case err != nil && !errors.Is(err, ErrInvalid):
			t.Errorf("%d) Expected ErrInvalid. Got %s.", i, err)
		case err == nil && (major != tests[i].major ||
			minor != tests[i].minor || patch != tests[i].patch):
			t.Errorf("%d) Expected (%d, %d, %d). Got (%d, %d, %d).", i,
				tests[i].major, tests[i].minor, tests[i].patch,
				major, minor, patch)
		}
	}
}

func TestLater(t *testing.T) {
	tests := []struct {
		s1, s2       string
		later, valid bool
	}{
		{"0.1.0", "0.1", false, false},
		{"0.1.0", "0.1.0", false, true},
		{"0.1.1", "0.1.0", true, true},
		{"0.2.0", "0.1.9", true, true},
		{"1.0.0", "0.9.9", true, true},
		{"0.1.0", "0.1.1", false, true},
		{"0.1.9", "0.2.0", false, true},
		{"2.13.7", "2.12.19", true, true},
		{"2.12.19", "2.13.7", false, true},
	}

	for i := range tests {
		later, err := Later(tests[i].s1, tests[i].s2)
		if err == nil && !tests[i].valid {
			t.Errorf("%d) Expected Later('%s', '%s') to return an error.",
				i, tests[i].s1, tests[i].s2)
		} else if err != nil && tests[i].valid {
			t.Errorf("%d) Did not expect Later('%s', '%s') to return an "+
				"error. Got %s.", i, tests[i].s1, tests[i].s2, err)
		} else if later != tests[i].later {
			t.Errorf("%d) Expected Later('%s', '%s') = %v. Got %v.", i,
				tests[i].s1, tests[i].s2, tests[i].later, later)
		}
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		s    string
		want error
	}{
		{SourceVersion, nil},
		{"0.0.9", ErrMismatch},
		{"0.1.1", ErrMismatch},
		{"1.0.0", ErrMismatch},
		{"0.1", ErrInvalid},
		{"", ErrInvalid},
	}

	for i := range tests {
		err := Check(tests[i].s)
		if tests[i].want == nil && err != nil {
			t.Errorf("%d) Expected Check('%s') to pass. Got %s.",
				i, tests[i].s, err)
		} else if !errors.Is(err, tests[i].want) {
			t.Errorf("%d) Expected Check('%s') to give %v. Got %v.",
				i, tests[i].s, tests[i].want, err)
		}
	}
}

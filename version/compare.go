package version

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Compare orders two "major.minor.patch" versions, with or without a "v" prefix.
// It returns 1 if a is newer, -1 if b is newer and 0 otherwise.
func Compare(a, b string) (int, error) {
	type semver struct {
		major, minor, patch int
	}

	parse := func(s string) (semver, error) {
		var v semver
		_, err := fmt.Sscanf(strings.TrimPrefix(s, "v"), "%d.%d.%d", &v.major, &v.minor, &v.patch)
		if err != nil {
			return v, fmt.Errorf("parse version %q: %w", s, err)
		}
		return v, nil
	}

	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range []lo.Tuple2[int, int]{
		{A: av.major, B: bv.major},
		{A: av.minor, B: bv.minor},
		{A: av.patch, B: bv.patch},
	} {
		switch {
		case pair.A > pair.B:
			return 1, nil
		case pair.A < pair.B:
			return -1, nil
		}
	}

	return 0, nil
}

package snapstore

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

const (
	// VersionLength is the fixed width of a runtime version string.
	VersionLength = 10
	// SnapshotSuffix is the object name extension of stored snapshots.
	SnapshotSuffix = ".json.gz"
)

// versionPattern matches a runtime version: exactly ten decimal digits.
var versionPattern = regexp.MustCompile(`^[0-9]{10}$`)

// Version identifies the deployed runtime a snapshot is compatible with.
// Versions are zero-padded fixed-width decimal strings, so lexicographic
// order equals numeric order.
type Version string

// Valid reports whether v matches the required version pattern.
func (v Version) Valid() bool {
	return versionPattern.MatchString(string(v))
}

// Number returns the numeric value of the version.
func (v Version) Number() (uint64, error) {
	n, err := strconv.ParseUint(string(v), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed runtime version %q", string(v))
	}
	return n, nil
}

// VersionFromNumber formats a build number as a runtime version.
func VersionFromNumber(n uint64) Version {
	return Version(fmt.Sprintf("%0*d", VersionLength, n))
}

// CutoffPolicy decides whether a runtime version is eligible for garbage
// collection. Versions it rejects are considered live and are never deleted,
// regardless of age.
type CutoffPolicy func(Version) bool

// CutoffBefore returns the standard cutoff policy: a version is eligible
// once it trails current by more than keep steps. Current and anything newer
// is always live.
func CutoffBefore(current Version, keep uint64) (CutoffPolicy, error) {
	cur, err := current.Number()
	if err != nil {
		return nil, err
	}
	return func(v Version) bool {
		n, err := v.Number()
		if err != nil {
			return false
		}
		return n+keep < cur
	}, nil
}

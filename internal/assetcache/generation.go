package assetcache

import (
	"regexp"

	"golang.org/x/mod/semver"
)

// DefaultGeneration names the cache generation written by this build.
const DefaultGeneration = "wm5-cache-v1"

var generationSuffix = regexp.MustCompile(`^(.*?)-?(v\d+(?:\.\d+){0,2})$`)

// splitGeneration separates "wm5-cache-v1" into ("wm5-cache", "v1"). The
// version is empty when the name carries no semver suffix.
func splitGeneration(name string) (family, version string) {
	m := generationSuffix.FindStringSubmatch(name)
	if m == nil || !semver.IsValid(m[2]) {
		return name, ""
	}
	return m[1], m[2]
}

// newerThan reports whether other is a later version of the same family as
// current.
func newerThan(other, current string) bool {
	of, ov := splitGeneration(other)
	cf, cv := splitGeneration(current)
	if ov == "" || cv == "" || of != cf {
		return false
	}
	return semver.Compare(ov, cv) > 0
}

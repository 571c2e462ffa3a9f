// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
	"strconv"
	"strings"
)

// Version represents the engine version information.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	VersionStr string
}

// String returns the version as a string.
func (v Version) String() string {
	if v.VersionStr != "" {
		return v.VersionStr
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast checks if the version is at least the given major, minor, patch.
func (v Version) AtLeast(major, minor, patch int) bool {
	if v.Major > major {
		return true
	}
	if v.Major < major {
		return false
	}
	if v.Minor > minor {
		return true
	}
	if v.Minor < minor {
		return false
	}
	return v.Patch >= patch
}

// ParseVersion parses an engine version string such as "6.2" or
// "5.6.1-build2". Components that are missing or unparsable stay zero; the
// raw string is preserved.
func ParseVersion(s string) Version {
	v := Version{VersionStr: s}
	core := strings.TrimPrefix(strings.TrimSpace(s), "v")
	if i := strings.IndexAny(core, "-+ "); i >= 0 {
		core = core[:i]
	}
	nums := make([]int, 0, 3)
	for _, part := range strings.Split(core, ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			break
		}
		nums = append(nums, n)
	}
	if len(nums) > 0 {
		v.Major = nums[0]
	}
	if len(nums) > 1 {
		v.Minor = nums[1]
	}
	if len(nums) > 2 {
		v.Patch = nums[2]
	}
	return v
}

// ParsedVersion fetches the engine version and parses it.
func (sc *ServerConnection) ParsedVersion() (Version, error) {
	versionStr, err := sc.Version()
	if err != nil {
		return Version{}, err
	}
	return ParseVersion(versionStr), nil
}

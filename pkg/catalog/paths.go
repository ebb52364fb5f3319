//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package catalog

import "strings"

// normalizePath strips a trailing slash so that "/dashboard/" and
// "/dashboard" compare equal. The root path "/" is left untouched.
func normalizePath(p string) string {
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// PathCovers reports whether requested falls under base: either the two
// paths are equal, or requested extends base at a '/' segment boundary.
//
// Matching is segment-aware rather than a raw string prefix check:
// "/dashboard/users" covers "/dashboard/users/42" but does NOT cover
// "/dashboard/usersxyz". This deliberately diverges from naive
// startsWith matching, which would authorize unrelated sibling paths
// that merely share a character prefix.
func PathCovers(base, requested string) bool {
	base = normalizePath(base)
	requested = normalizePath(requested)

	if base == "" {
		return false
	}
	if requested == base {
		return true
	}
	if base == "/" {
		return strings.HasPrefix(requested, "/")
	}
	return strings.HasPrefix(requested, base+"/")
}

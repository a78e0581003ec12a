package policy

import "strings"

// PermissionKey identifies one controllable action as a colon-delimited
// hierarchical string: domain:resource:action[:qualifier]. Segments are
// lowercase [a-z0-9_]+. Catalog grants may additionally use a trailing "*"
// segment (or the bare key "*") to cover every descendant key.
type PermissionKey string

const (
	// KeyAccountReactivate is the only key a deactivated actor may still be
	// evaluated for, so a locked-out account can be restored.
	KeyAccountReactivate PermissionKey = "account:reactivate"
)

const (
	minSegments = 2
	maxSegments = 4
)

// Valid reports whether the key is a well-formed concrete key. Wildcards are
// not valid in query keys; they are only meaningful inside the catalog.
func (k PermissionKey) Valid() bool {
	return validKey(string(k), false)
}

// validGrant reports whether a catalog entry is well-formed. "*" alone grants
// everything; otherwise segments follow the concrete grammar with an optional
// trailing "*".
func (k PermissionKey) validGrant() bool {
	if k == "*" {
		return true
	}
	return validKey(string(k), true)
}

// covers reports whether this catalog grant satisfies the requested key.
func (k PermissionKey) covers(requested PermissionKey) bool {
	if k == "*" || k == requested {
		return true
	}
	if strings.HasSuffix(string(k), ":*") {
		return strings.HasPrefix(string(requested), string(k[:len(k)-1]))
	}
	return false
}

func validKey(raw string, allowWildcard bool) bool {
	segments := strings.Split(raw, ":")
	if len(segments) < minSegments || len(segments) > maxSegments {
		return false
	}
	for i, segment := range segments {
		if segment == "*" {
			if allowWildcard && i == len(segments)-1 {
				continue
			}
			return false
		}
		if !validSegment(segment) {
			return false
		}
	}
	return true
}

func validSegment(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

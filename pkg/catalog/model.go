//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package catalog defines the data structures for the dashboard access
// catalog: the menu tree of navigable destinations and the per-role
// allow lists that govern them.
//
// # Key Types
//
//   - [MenuItem]: A single dashboard destination, or a group of them
//   - [MenuSection]: A presentational grouping of menu items
//   - [MenuTree]: The full, ordered declaration of the dashboard surface
//   - [RoleAccessTable]: Per-role allow lists of menu item keys
//   - [Catalog]: A named menu tree plus its role-access table
//
// Identifiers are typed: [Key] for menu item keys and [Role] for role
// names. Both travel as plain strings on the wire and in YAML; they are
// converted to the typed form once, at the parse or storage boundary,
// so the decision path never compares raw strings.
//
// # Authorization Semantics
//
// A role's permitted key set selects menu items by key. An item with
// children is a group: it is visible if and only if at least one of its
// children is permitted, and its own path (if any) is never separately
// authorized. Roles absent from the table have an empty permitted set
// (default-deny).
//
// The pure resolver functions ([VisibleMenu], [AuthorizedPaths],
// [GovernedPaths]) and the segment-aware [PathCovers] matcher implement
// these semantics with no hidden state and no I/O.
package catalog

import "sort"

// Key uniquely identifies a menu item across the entire menu tree,
// including children. The role-access table references keys, not paths.
type Key string

// Role identifies a staff job function. Roles are opaque, not
// hierarchical, and not composable; each role's permitted key set is
// independently enumerated.
type Role string

// KeySet is a set of menu item keys.
type KeySet map[Key]struct{}

// NewKeySet builds a KeySet from the given keys.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether the set contains k.
func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k into the set.
func (s KeySet) Add(k Key) {
	s[k] = struct{}{}
}

// Sorted returns the members in lexical order.
func (s KeySet) Sorted() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// PathSet is a set of URL paths. Duplicate paths reachable through
// different keys collapse to a single member.
type PathSet map[string]struct{}

// Has reports whether the set contains exactly p.
func (s PathSet) Has(p string) bool {
	_, ok := s[p]
	return ok
}

// Add inserts p into the set.
func (s PathSet) Add(p string) {
	s[p] = struct{}{}
}

// Covers reports whether any member of the set covers the requested
// path per [PathCovers] (equal, or extended at a segment boundary).
func (s PathSet) Covers(requested string) bool {
	if s.Has(requested) {
		return true
	}
	for base := range s {
		if PathCovers(base, requested) {
			return true
		}
	}
	return false
}

// Sorted returns the members in lexical order.
func (s PathSet) Sorted() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// MenuItem is a single dashboard destination, or - when it has
// children - a group of destinations.
//
// Fields:
//   - Key: globally unique identifier, referenced by the role-access table
//   - Name: display name rendered in the navigation
//   - Path: URL path of the destination; for groups this is decorative
//     and never separately authorized
//   - Children: ordered child items; non-empty makes this item a group
type MenuItem struct {
	Key      Key        `json:"key" yaml:"key"`
	Name     string     `json:"name" yaml:"name"`
	Path     string     `json:"path,omitempty" yaml:"path,omitempty"`
	Children []MenuItem `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsGroup reports whether the item is a group (has children).
func (m *MenuItem) IsGroup() bool {
	return len(m.Children) > 0
}

// MenuSection is a purely presentational grouping of menu items. It
// carries no authorization semantics of its own.
type MenuSection struct {
	Title string     `json:"title" yaml:"title"`
	Items []MenuItem `json:"items" yaml:"items"`
}

// MenuTree is the static, ordered declaration of the full dashboard
// navigation surface.
type MenuTree []MenuSection

// Walk visits every item in the tree, including children, in
// declaration order. Walking stops early if fn returns false.
func (t MenuTree) Walk(fn func(item *MenuItem) bool) {
	var walk func(items []MenuItem) bool
	walk = func(items []MenuItem) bool {
		for i := range items {
			if !fn(&items[i]) {
				return false
			}
			if !walk(items[i].Children) {
				return false
			}
		}
		return true
	}
	for i := range t {
		if !walk(t[i].Items) {
			return
		}
	}
}

// Keys returns the set of every key declared anywhere in the tree.
func (t MenuTree) Keys() KeySet {
	keys := make(KeySet)
	t.Walk(func(item *MenuItem) bool {
		keys.Add(item.Key)
		return true
	})
	return keys
}

// RoleAccessTable maps each role to the set of menu item keys it may
// see and use.
type RoleAccessTable map[Role]KeySet

// PermittedKeys returns the permitted key set for the role. A role
// absent from the table yields an empty set: default-deny, not an
// error.
func (t RoleAccessTable) PermittedKeys(role Role) KeySet {
	if keys, ok := t[role]; ok {
		return keys
	}
	return KeySet{}
}

// Roles returns the declared role names in lexical order.
func (t RoleAccessTable) Roles() []Role {
	roles := make([]Role, 0, len(t))
	for r := range t {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Catalog is a named menu tree together with its role-access table, as
// loaded from one catalog bundle.
type Catalog struct {
	Name  string
	Menu  MenuTree
	Roles RoleAccessTable
}

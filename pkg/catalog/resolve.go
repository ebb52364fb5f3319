//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package catalog

import "github.com/mohae/deepcopy"

// effectivePermitted expands a role's permitted key set through groups:
// granting a group's key grants every descendant of that group. Child
// keys may also be granted individually, without the enclosing group's
// key. The input set is never mutated.
func effectivePermitted(tree MenuTree, permitted KeySet) KeySet {
	effective := make(KeySet, len(permitted))
	for k := range permitted {
		effective.Add(k)
	}

	var expand func(items []MenuItem, inherited bool)
	expand = func(items []MenuItem, inherited bool) {
		for i := range items {
			item := &items[i]
			granted := inherited || permitted.Has(item.Key)
			if granted {
				effective.Add(item.Key)
			}
			expand(item.Children, granted)
		}
	}
	for i := range tree {
		expand(tree[i].Items, false)
	}

	return effective
}

// VisibleMenu computes the subset of the menu tree a role may see,
// given that role's permitted key set.
//
// A leaf item is kept when its key is permitted. A group item is kept
// when at least one of its children is permitted - either individually,
// or by way of the group's own key, which permits all of its children.
// The kept group retains only the permitted children; non-matching
// siblings are dropped from the result, not merely hidden. Sections
// left with zero items are dropped entirely so no empty headers render.
//
// The result is a deep copy; mutating it never aliases the input tree.
// Output depends only on the inputs - no hidden state, no I/O.
func VisibleMenu(tree MenuTree, permitted KeySet) MenuTree {
	effective := effectivePermitted(tree, permitted)
	visible := make(MenuTree, 0, len(tree))

	for _, section := range tree {
		items := visibleItems(section.Items, effective)
		if len(items) > 0 {
			visible = append(visible, MenuSection{Title: section.Title, Items: items})
		}
	}

	return visible
}

func visibleItems(items []MenuItem, effective KeySet) []MenuItem {
	kept := make([]MenuItem, 0, len(items))
	for i := range items {
		item := &items[i]
		if item.IsGroup() {
			children := visibleItems(item.Children, effective)
			if len(children) == 0 {
				continue
			}
			group := deepcopy.Copy(*item).(MenuItem)
			group.Children = children
			kept = append(kept, group)
			continue
		}

		if effective.Has(item.Key) {
			kept = append(kept, deepcopy.Copy(*item).(MenuItem))
		}
	}
	return kept
}

// AuthorizedPaths computes the flat set of URL paths a role may reach:
// the union of the paths of every permitted leaf item, where a
// permitted group key permits all of the group's children. Group items
// contribute no path of their own, even when a decorative path is
// declared; only concrete child destinations are authorized.
//
// A path reachable via two different keys appears once - sets
// de-duplicate by value.
func AuthorizedPaths(tree MenuTree, permitted KeySet) PathSet {
	effective := effectivePermitted(tree, permitted)
	paths := make(PathSet)
	tree.Walk(func(item *MenuItem) bool {
		if item.IsGroup() {
			return true
		}
		if item.Path != "" && effective.Has(item.Key) {
			paths.Add(normalizePath(item.Path))
		}
		return true
	})
	return paths
}

// GovernedPaths computes the guard's jurisdiction: every leaf path
// declared anywhere in the tree, for any role. Paths outside this set
// are not governed by the guard at all. Group items' decorative paths
// are excluded, mirroring AuthorizedPaths, so a group path can never be
// governed-but-unreachable.
func GovernedPaths(tree MenuTree) PathSet {
	paths := make(PathSet)
	tree.Walk(func(item *MenuItem) bool {
		if !item.IsGroup() && item.Path != "" {
			paths.Add(normalizePath(item.Path))
		}
		return true
	})
	return paths
}

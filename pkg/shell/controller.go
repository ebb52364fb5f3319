//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package shell models the dashboard shell's presentation state: the
// sidebar, the viewport class, and per-group menu expansion. It is a
// pure state machine with no I/O; rendering layers observe it and
// feed viewport and navigation events into it.
package shell

import (
	"sync"

	"github.com/balaipom/portalguard/pkg/catalog"
)

// Controller owns the shell state. The zero value is not usable; use
// [NewController].
type Controller struct {
	mu          sync.Mutex
	narrow      bool
	sidebarOpen bool
	expanded    map[catalog.Key]bool
}

// NewController creates a Controller in the wide-viewport state with
// the sidebar open and all groups collapsed.
func NewController() *Controller {
	return &Controller{
		sidebarOpen: true,
		expanded:    make(map[catalog.Key]bool),
	}
}

// ObserveViewport feeds the current viewport class into the
// controller.
//
// Only a class transition resets the sidebar: entering the narrow
// class forces it closed, returning to the wide class forces it open.
// Re-observing the same class never overrides a manual toggle, so a
// user who opened the sidebar on a phone keeps it open through resize
// events that stay narrow.
func (c *Controller) ObserveViewport(narrow bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if narrow == c.narrow {
		return
	}
	c.narrow = narrow
	c.sidebarOpen = !narrow
}

// ToggleSidebar flips the sidebar unconditionally, in either viewport
// class.
func (c *Controller) ToggleSidebar() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sidebarOpen = !c.sidebarOpen
}

// Navigate records that a destination was chosen. On narrow viewports
// the sidebar overlays the content, so it closes; on wide viewports it
// stays as the user left it.
func (c *Controller) Navigate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.narrow {
		c.sidebarOpen = false
	}
}

// ToggleGroup flips the expansion of one menu group. Groups expand and
// collapse independently; toggling one never affects another.
func (c *Controller) ToggleGroup(key catalog.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expanded[key] = !c.expanded[key]
}

// GroupExpanded reports whether the group is expanded. Unknown keys
// are collapsed.
func (c *Controller) GroupExpanded(key catalog.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded[key]
}

// SidebarOpen reports whether the sidebar is open.
func (c *Controller) SidebarOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sidebarOpen
}

// Narrow reports the last observed viewport class.
func (c *Controller) Narrow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.narrow
}

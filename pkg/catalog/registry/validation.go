//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package registry

import (
	"fmt"
	"strings"
)

// Error describes a single catalog validation failure.
type Error struct {
	Catalog  string
	Entity   string
	EntityID string
	Message  string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Catalog != "" {
		fmt.Fprintf(&b, "in catalog '%s' ", e.Catalog)
	}
	if e.Entity != "" {
		fmt.Fprintf(&b, "%s '%s': ", e.Entity, e.EntityID)
	}
	b.WriteString(e.Message)
	return b.String()
}

// Errors accumulates validation failures so a single load reports every
// problem in the bundle set, not just the first.
type Errors struct {
	Errors []*Error
}

// NewValidationErrors creates an empty error collection.
func NewValidationErrors() *Errors {
	return &Errors{}
}

// Add appends an error to the collection.
func (e *Errors) Add(err *Error) {
	e.Errors = append(e.Errors, err)
}

// Addf appends a formatted error for an entity in a catalog.
func (e *Errors) Addf(catalogName, entity, entityID, format string, args ...interface{}) {
	e.Add(&Error{
		Catalog:  catalogName,
		Entity:   entity,
		EntityID: entityID,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any errors have accumulated.
func (e *Errors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Count returns the number of accumulated errors.
func (e *Errors) Count() int {
	return len(e.Errors)
}

func (e *Errors) Error() string {
	if !e.HasErrors() {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "validation failed with %d errors:", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

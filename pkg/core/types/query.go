//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package types

import (
	"encoding/json"
	"errors"
)

// AnyQuery allows a route query to be submitted as either an unparsed
// JSON string, or an unmarshalled Query. This allows the caller to
// choose between convenience and efficiency.
type AnyQuery interface{}

// Principal identifies the authenticated staff member on whose behalf
// a route query is evaluated.
type Principal struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// Query is the input for one route authorization decision.
//
// Ready reflects whether session restoration has completed; until it
// has, every decision is Pending. Principal is nil for anonymous
// visitors.
type Query struct {
	Path      string     `json:"path"`
	Ready     bool       `json:"ready"`
	Principal *Principal `json:"principal,omitempty"`
}

// UnmarshalQuery parses a JSON string, if required, into a decoded
// Query. If the input is already a Query, it's just passed through.
func UnmarshalQuery(input AnyQuery) (*Query, error) {

	switch input := input.(type) {
	case string:
		query := &Query{}
		err := json.Unmarshal([]byte(input), query)
		if err != nil {
			return nil, err
		}

		return query, nil
	case *Query:
		return input, nil
	case Query:
		return &input, nil
	default:
		return nil, errors.New("invalid type")
	}
}

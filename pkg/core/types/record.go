//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package types

import "time"

// AccessRecord is the audit trail entry emitted for every route
// decision. One record is produced per query, probe evaluations
// excepted.
type AccessRecord struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Subject   string            `json:"subject,omitempty"`
	Role      string            `json:"role,omitempty"`
	Path      string            `json:"path"`
	Decision  string            `json:"decision"`
	Reason    string            `json:"reason,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

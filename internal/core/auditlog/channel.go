//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package auditlog

import (
	"github.com/balaipom/portalguard/pkg/core/auditlog"
	"github.com/balaipom/portalguard/pkg/core/types"
)

// ChannelFactory factory for ChannelStream
type ChannelFactory struct {
	ch chan *types.AccessRecord
}

// ChannelStream implements the Stream interface by writing access records to a channel.
type ChannelStream struct {
	ch chan *types.AccessRecord
}

// NewChannelLogger creates a new Stream for logging access records to a channel.
func NewChannelLogger(ch chan *types.AccessRecord) auditlog.Factory {
	return &ChannelFactory{ch: ch}
}

// NewStream creates a new Stream to satisfy the Factory interface.
func (f *ChannelFactory) NewStream() (auditlog.Stream, error) {
	return &ChannelStream{ch: f.ch}, nil
}

// Send emulates the production of a broker event by sending an access record to the channel.
func (s *ChannelStream) Send(m *types.AccessRecord) error {
	s.ch <- m

	return nil
}

// Close finalizes the audit log by closing the underlying channel.
func (s *ChannelStream) Close() {
	if s.ch != nil {
		close(s.ch)
	}
}

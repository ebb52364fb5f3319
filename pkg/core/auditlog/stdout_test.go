//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package auditlog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/balaipom/portalguard/pkg/core/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIoWriterFactory(t *testing.T) {
	log := NewStdoutFactory()
	assert.NotNil(t, log)
	assert.IsType(t, &IoWriterFactory{}, log)
}

func TestIoWriterFactory_NewStream(t *testing.T) {
	buf := &bytes.Buffer{}
	factory := NewIoWriterFactory(buf)

	stream, err := factory.NewStream()
	require.NoError(t, err)
	assert.NotNil(t, stream)
	assert.IsType(t, &IoWriterStream{}, stream)
}

func TestIoWriterStream_Send(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{})

	record := &types.AccessRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Subject:   "siti@balaipom.go.id",
		Role:      "Admin Web",
		Path:      "/dashboard/konten/artikel",
		Decision:  types.Allow.String(),
	}

	err := log.Send(record)
	require.NoError(t, err)

	var decoded types.AccessRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, record.ID, decoded.ID)
	assert.Equal(t, "siti@balaipom.go.id", decoded.Subject)
	assert.Equal(t, "ALLOW", decoded.Decision)
	assert.Contains(t, buf.String(), "\n")
}

func TestIoWriterStream_MultipleWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{})

	subjects := []string{"user1", "user2", "user3"}
	for _, subject := range subjects {
		err := log.Send(&types.AccessRecord{
			Subject:  subject,
			Path:     "/dashboard",
			Decision: types.Allow.String(),
		})
		require.NoError(t, err)
	}

	output := buf.String()
	for _, subject := range subjects {
		assert.Contains(t, output, subject)
	}
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestIoWriterStream_PrettyPrint(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{PrettyPrint: true})

	err := log.Send(&types.AccessRecord{
		Subject:  "alice",
		Path:     "/dashboard",
		Decision: types.Forbidden.String(),
	})
	require.NoError(t, err)

	output := buf.String()
	assert.True(t, strings.Contains(output, "\n  "), "pretty print should contain indented newlines")

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &data))
	assert.Equal(t, "FORBIDDEN", data["decision"])
}

func TestIoWriterStream_CompactOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{PrettyPrint: false})

	err := log.Send(&types.AccessRecord{
		Subject:  "alice",
		Path:     "/dashboard",
		Decision: types.Allow.String(),
	})
	require.NoError(t, err)

	trimmed := strings.TrimSuffix(buf.String(), "\n")
	assert.False(t, strings.Contains(trimmed, "\n"), "compact output should be single line")
}

func TestIoWriterStream_OmitsEmptyFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{})

	// Anonymous visitor: no subject, no role.
	err := log.Send(&types.AccessRecord{
		Path:     "/dashboard",
		Decision: types.Login.String(),
	})
	require.NoError(t, err)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	_, hasSubject := data["subject"]
	assert.False(t, hasSubject)
	_, hasRole := data["role"]
	assert.False(t, hasRole)
}

func TestIoWriterStream_Close(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newStream(buf, AuditLogOptions{})

	assert.NotPanics(t, func() {
		log.Close()
	})

	// Writes still succeed after Close since it's a no-op.
	err := log.Send(&types.AccessRecord{Path: "/dashboard", Decision: types.Allow.String()})
	assert.NoError(t, err)
}

func TestNullFactory(t *testing.T) {
	factory := NewNullFactory()
	assert.NotNil(t, factory)
	assert.IsType(t, &NullFactory{}, factory)

	stream, err := factory.NewStream()
	require.NoError(t, err)
	assert.IsType(t, &NullStream{}, stream)
}

func TestNullStream_Send(t *testing.T) {
	factory := NewNullFactory()
	stream, _ := factory.NewStream()

	for i := 0; i < 100; i++ {
		err := stream.Send(&types.AccessRecord{Path: "/dashboard", Decision: types.Allow.String()})
		assert.NoError(t, err)
	}

	assert.NoError(t, stream.Send(nil))
	assert.NotPanics(t, func() {
		stream.Close()
		stream.Close()
	})
}

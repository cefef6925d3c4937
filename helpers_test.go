package ftpserver

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"ftpserver/ftplog"
)

const (
	authUser = "test"
	authPass = "test"
)

// newTestServer starts a Server backed by an in-memory filesystem, rooted at
// "/srv", listening on an ephemeral loopback port, and registers its
// teardown with t.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/srv", 0o755))

	users := map[string]string{authUser: authPass}

	server := NewServer("127.0.0.1:0", "/srv", fs, users, ftplog.Nothing())
	require.NoError(t, server.Listen())

	t.Cleanup(func() { _ = server.Stop() })

	go func() { _ = server.Serve() }()

	return server
}

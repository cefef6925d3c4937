package ftpserver

import (
	"io"
	"testing"

	"github.com/secsy/goftp"
	"github.com/stretchr/testify/require"
)

func openRawConn(t *testing.T, server *Server) goftp.RawConn {
	t.Helper()

	client, err := goftp.DialConfig(goftp.Config{User: authUser, Password: authPass}, server.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	raw, err := client.OpenRawConn()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	return raw
}

func TestMkdirThenCwdThenPwd(t *testing.T) {
	server := newTestServer(t)
	raw := openRawConn(t, server)

	code, _, err := raw.SendCommand("MKD a")
	require.NoError(t, err)
	require.Equal(t, StatusOK, code)

	code, _, err = raw.SendCommand("MKD a/b/c")
	require.NoError(t, err)
	require.Equal(t, StatusOK, code)

	code, _, err = raw.SendCommand("CWD a/b/c")
	require.NoError(t, err)
	require.Equal(t, StatusOK, code)

	code, response, err := raw.SendCommand("PWD")
	require.NoError(t, err)
	require.Equal(t, StatusPathCreated, code)
	require.Contains(t, response, "/a/b/c")
}

func TestCwdTraversalRejected(t *testing.T) {
	server := newTestServer(t)
	raw := openRawConn(t, server)

	code, _, err := raw.SendCommand("CWD /../etc")
	require.NoError(t, err)
	require.Equal(t, StatusActionNotTaken, code)
}

func TestCwdCannotEscapeFromRoot(t *testing.T) {
	server := newTestServer(t)
	raw := openRawConn(t, server)

	code, _, err := raw.SendCommand("CWD ..")
	require.NoError(t, err)
	require.Equal(t, StatusActionNotTaken, code)
}

func TestCwdRejectsNonexistentDirectory(t *testing.T) {
	server := newTestServer(t)
	raw := openRawConn(t, server)

	code, _, err := raw.SendCommand("CWD nope")
	require.NoError(t, err)
	require.Equal(t, StatusActionNotTaken, code)
}

func TestCdupEquivalentToParentCwd(t *testing.T) {
	server := newTestServer(t)
	raw := openRawConn(t, server)

	code, _, err := raw.SendCommand("MKD sub")
	require.NoError(t, err)
	require.Equal(t, StatusOK, code)

	code, _, err = raw.SendCommand("CWD sub")
	require.NoError(t, err)
	require.Equal(t, StatusOK, code)

	code, _, err = raw.SendCommand("CDUP")
	require.NoError(t, err)
	require.Equal(t, StatusOK, code)

	code, response, err := raw.SendCommand("PWD")
	require.NoError(t, err)
	require.Equal(t, StatusPathCreated, code)
	require.Contains(t, response, `"/"`)
}

func TestCdupFromRootFails(t *testing.T) {
	server := newTestServer(t)
	raw := openRawConn(t, server)

	code, _, err := raw.SendCommand("CDUP")
	require.NoError(t, err)
	require.Equal(t, StatusActionNotTaken, code)
}

// readListing drives a full LIST exchange over a fresh data connection and
// returns the raw bytes the server wrote to it.
func readListing(t *testing.T, raw goftp.RawConn, cmd string) string {
	t.Helper()

	getConn, err := raw.PrepareDataConn()
	require.NoError(t, err)

	code, _, err := raw.SendCommand(cmd)
	require.NoError(t, err)
	require.Equal(t, StatusAboutToSend, code)

	conn, err := getConn()
	require.NoError(t, err)

	data, err := io.ReadAll(conn)
	require.NoError(t, err)

	code, _, err = raw.ReadResponse()
	require.NoError(t, err)
	require.Equal(t, StatusTransferComplete, code)

	return string(data)
}

func TestListVerboseIncludesSyntheticEntries(t *testing.T) {
	server := newTestServer(t)
	raw := openRawConn(t, server)

	code, _, err := raw.SendCommand("MKD onedir")
	require.NoError(t, err)
	require.Equal(t, StatusOK, code)

	listing := readListing(t, raw, "LIST -al")

	require.Contains(t, listing, "drwxr-xr-x 0b .\r\n")
	require.Contains(t, listing, "drwxr-xr-x 0b ..\r\n")
	require.Contains(t, listing, "onedir")
}

func TestListLinesMatchPermissionFormat(t *testing.T) {
	server := newTestServer(t)
	raw := openRawConn(t, server)

	code, _, err := raw.SendCommand("MKD adir")
	require.NoError(t, err)
	require.Equal(t, StatusOK, code)

	listing := readListing(t, raw, "LIST")

	require.Regexp(t, `^[d-][rwx-]{9} \d+b \S+\r\n$`, listing)
}

func TestMkdCreatesMissingIntermediateDirectories(t *testing.T) {
	server := newTestServer(t)
	raw := openRawConn(t, server)

	code, _, err := raw.SendCommand("MKD deep/er/path")
	require.NoError(t, err)
	require.Equal(t, StatusOK, code)

	code, _, err = raw.SendCommand("CWD deep/er/path")
	require.NoError(t, err)
	require.Equal(t, StatusOK, code)
}

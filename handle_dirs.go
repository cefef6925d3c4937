package ftpserver

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// handlePWD reports the working directory relative to the server root,
// per RFC 959's quote-doubling convention.
func (s *Session) handlePWD(string) (int, string) {
	return StatusPathCreated, fmt.Sprintf(`"%s" is the current directory`, quoteDoubling(s.pwd()))
}

// handleCWD changes the working directory after confirming the resolved
// target both stays within the sandbox and names an existing directory.
func (s *Session) handleCWD(param string) (int, string) {
	target, ok := resolve(s.root, s.cwd, param)
	if !ok {
		return StatusActionNotTaken, "Invalid path or no access"
	}

	info, err := s.fs.Stat(target)
	if err != nil || !info.IsDir() {
		return StatusActionNotTaken, "Invalid path or no access"
	}

	s.cwd = target

	return StatusOK, fmt.Sprintf("CD worked on %s", s.pwd())
}

// handleCDUP is CWD .. under another name.
func (s *Session) handleCDUP(string) (int, string) {
	return s.handleCWD("..")
}

// handleMKD creates a directory, including any missing parents, within the
// sandbox.
func (s *Session) handleMKD(param string) (int, string) {
	target, ok := resolve(s.root, s.cwd, param)
	if !ok {
		return StatusActionNotTaken, "Invalid path or no access"
	}

	if err := s.fs.MkdirAll(target, 0o755); err != nil {
		return StatusActionNotTaken, fmt.Sprintf(`Could not create "%s": %v`, quoteDoubling(target), err)
	}

	return StatusOK, fmt.Sprintf(`Created dir "%s"`, quoteDoubling(target))
}

// listFlags are the ls-style switches the LIST command recognizes ahead of
// an optional pathname argument. Longer flags are listed first so a prefix
// match never picks the wrong one.
var listFlags = []string{"-al", "-la", "-a", "-l"}

// parseListParam splits a leading recognized flag from the trailing path
// argument, reporting whether a verbose listing with synthetic "." and ".."
// entries was requested.
func parseListParam(param string) (verbose bool, pathArg string) {
	lower := strings.ToLower(param)

	for _, flag := range listFlags {
		if lower == flag {
			return true, ""
		}

		if strings.HasPrefix(lower, flag+" ") {
			return true, strings.TrimSpace(param[len(flag):])
		}
	}

	return false, param
}

// handleLIST sends a directory (or single-file) listing over the negotiated
// data connection, then closes it. The preliminary 125 goes straight to the
// control connection; the final 226/426 is this handler's return value,
// written by the driver loop.
func (s *Session) handleLIST(param string) (int, string) {
	verbose, pathArg := parseListParam(param)

	target, ok := resolve(s.root, s.cwd, pathArg)
	if !ok {
		return StatusActionNotTaken, "Invalid path or no access"
	}

	entries, err := listEntries(s.fs, target)
	if err != nil {
		return StatusActionNotTaken, fmt.Sprintf("Could not list: %v", err)
	}

	conn, err := s.transferOpen()
	if err != nil {
		return StatusCantOpenDataConn, fmt.Sprintf("Could not open data connection: %v", err)
	}

	s.writeMessage(StatusAboutToSend, "Opening data connection for directory listing")

	w := newStreamWriter(conn)

	if verbose {
		_, _ = w.Write([]byte("drwxr-xr-x 0b .\r\n"))
		_, _ = w.Write([]byte("drwxr-xr-x 0b ..\r\n"))
	}

	writeErr := writeListing(w, entries)
	flushErr := w.Flush()
	s.transferClose()

	if writeErr != nil || flushErr != nil {
		return StatusTransferAborted, "Transfer aborted"
	}

	return StatusTransferComplete, "Directory send OK"
}

// listEntries stats target and, for a directory, returns its sorted
// contents; for a plain file it returns a single-element slice describing
// that file, matching RFC 959's allowance for a file-targeted LIST.
func listEntries(filesystem afero.Fs, target string) ([]os.FileInfo, error) {
	info, err := filesystem.Stat(target)
	if err != nil {
		return nil, newFileAccessError("couldn't stat path", err)
	}

	if !info.IsDir() {
		return []os.FileInfo{info}, nil
	}

	dir, err := filesystem.Open(target)
	if err != nil {
		return nil, newFileAccessError("couldn't open directory", err)
	}
	defer dir.Close()

	entries, err := dir.Readdir(-1)
	if err != nil {
		return nil, newFileAccessError("couldn't read directory", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	return entries, nil
}

// writeListing renders one line per entry as "<perm> <size>b <name>".
func writeListing(w *streamWriter, entries []os.FileInfo) error {
	for _, entry := range entries {
		line := fmt.Sprintf("%s %db %s\r\n", permString(entry), entry.Size(), entry.Name())
		if _, err := w.Write([]byte(line)); err != nil {
			return newNetworkError("error writing LIST entry", err)
		}
	}

	return nil
}

// permString renders the ten-character permission string: a type flag
// followed by three rwx triples for owner/group/other, with missing bits
// shown as "-".
func permString(info os.FileInfo) string {
	var sb strings.Builder

	if info.IsDir() {
		sb.WriteByte('d')
	} else {
		sb.WriteByte('-')
	}

	mode := info.Mode().Perm()

	bits := []struct {
		mask fs.FileMode
		ch   byte
	}{
		{0o400, 'r'}, {0o200, 'w'}, {0o100, 'x'},
		{0o040, 'r'}, {0o020, 'w'}, {0o010, 'x'},
		{0o004, 'r'}, {0o002, 'w'}, {0o001, 'x'},
	}

	for _, b := range bits {
		if mode&b.mask != 0 {
			sb.WriteByte(b.ch)
		} else {
			sb.WriteByte('-')
		}
	}

	return sb.String()
}

// quoteDoubling escapes embedded quotes per RFC 959's pathname quoting rule.
func quoteDoubling(s string) string {
	if !strings.Contains(s, "\"") {
		return s
	}

	return strings.ReplaceAll(s, "\"", `""`)
}

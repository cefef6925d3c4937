package ftpserver

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/afero"

	"ftpserver/ftplog"
)

// TransferType is the session's negotiated representation type (TYPE
// command). Only ASCII-nonprint and Image are supported, per the
// specification's non-goals.
type TransferType int

// Supported transfer types.
const (
	TransferTypeASCII TransferType = iota
	TransferTypeImage
)

var errNoDataConn = errors.New("no data connection negotiated: send PORT or PASV first")

// credentials holds the session's authentication state. Both fields empty
// means unauthenticated; per the specification, authentication requires
// both to be non-empty simultaneously.
type credentials struct {
	name     string
	password string
}

func (c credentials) authenticated() bool {
	return c.name != "" && c.password != ""
}

// Session is the per-connection state the driver loop and every command
// handler operate on. One Session exists per accepted control connection and
// is never shared across goroutines.
type Session struct {
	conn   net.Conn
	reader *lineBuffer

	fs   afero.Fs
	root string // absolute, weakly-canonical server root
	cwd  string // absolute working directory, always root or root/...

	users map[string]string // read-only, shared by reference across sessions

	user        credentials
	prevCommand string
	active      bool

	transferType TransferType
	transfer     transferHandler

	logger ftplog.Logger

	peer string
}

// NewSession wires a freshly accepted connection into a Session ready to run
// the command driver loop.
func NewSession(conn net.Conn, fs afero.Fs, root string, users map[string]string, logger ftplog.Logger) *Session {
	peer := conn.RemoteAddr().String()

	return &Session{
		conn:         conn,
		reader:       newLineBuffer(),
		fs:           fs,
		root:         root,
		cwd:          root,
		users:        users,
		active:       true,
		transferType: TransferTypeASCII,
		logger:       logger.With("peer", peer),
		peer:         peer,
	}
}

// Run drives the session to completion: send the welcome banner, then loop
// reading, dispatching and replying to commands until QUIT or a fatal
// connection error.
func (s *Session) Run() {
	defer s.closeTransfer()
	defer func() { _ = s.conn.Close() }()

	s.writeMessage(StatusReady, "Ready for service, waiting for authorization")

	for s.active {
		line, err := s.reader.readline(s.conn)

		if errors.Is(err, ErrFatalRead) {
			s.writeMessage(StatusServerWillClose, "Error - control connection lost")

			return
		}

		if line == nil {
			s.writeMessage(StatusSyntaxError, "Invalid command (too long or can't read command)")

			continue
		}

		if !isPrintableCommandLine(line) {
			s.writeMessage(StatusSyntaxError, "Invalid chars in command")

			continue
		}

		verb, param := splitCommandLine(string(line))
		verb = strings.ToUpper(verb)

		desc, ok := commandTable[verb]
		if !ok {
			s.writeMessage(StatusCommandUnknown, "Command unknown or not implemented")
			s.prevCommand = verb

			continue
		}

		if desc.authRequired && !s.user.authenticated() {
			s.writeMessage(StatusNotLoggedIn, "Please login with USER and PASS")
			s.prevCommand = verb

			continue
		}

		code, text := desc.fn(s, param)
		s.writeMessage(code, text)
		s.prevCommand = verb
	}
}

// isPrintableCommandLine rejects any line containing a byte outside the
// printable ASCII range, per the driver's input-sanitization step.
func isPrintableCommandLine(line []byte) bool {
	for _, b := range line {
		if b < 0x20 || b > 0x7f {
			return false
		}
	}

	return true
}

// splitCommandLine separates the verb from its argument string on the first
// space; the remainder may itself contain further spaces.
func splitCommandLine(line string) (string, string) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}

	return parts[0], parts[1]
}

// writeLine sends one reply line. A failed write ends the session: the driver
// loop stops after a best-effort final 421 reply.
func (s *Session) writeLine(line string) {
	if _, err := s.conn.Write([]byte(line + "\r\n")); err != nil {
		s.logger.Warn("answer couldn't be sent", "err", err, "line", line)

		if s.active {
			s.active = false
			_, _ = s.conn.Write([]byte(fmt.Sprintf("%d Error - %v\r\n", StatusServerWillClose, err)))
		}
	}
}

// writeMessage sends a (possibly multi-line) reply: every line but the last
// uses the "NNN-text" continuation form, the last uses "NNN text".
func (s *Session) writeMessage(code int, message string) {
	lines := strings.Split(message, "\n")

	for i, line := range lines {
		if i < len(lines)-1 {
			s.writeLine(fmt.Sprintf("%d-%s", code, line))
		} else {
			s.writeLine(fmt.Sprintf("%d %s", code, line))
		}
	}
}

// pwd returns the working directory as reported by PWD: the server root
// prefix stripped, so the root itself reads as "/".
func (s *Session) pwd() string {
	rel := strings.TrimPrefix(s.cwd, s.root)
	if rel == "" {
		return "/"
	}

	return rel
}

// connectionTimeout bounds how long the manager waits to accept (passive)
// or dial (active) a data connection before giving up.
const connectionTimeout = 30 * time.Second

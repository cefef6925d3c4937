package ftpserver

import (
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"ftpserver/ftplog"
)

// ErrNotListening is returned by Stop when the server was never started.
var ErrNotListening = errors.New("we aren't listening")

// Server owns the listening socket and the filesystem, root and user table
// every accepted Session shares.
type Server struct {
	Logger ftplog.Logger

	listenAddr string
	root       string
	fs         afero.Fs
	users      map[string]string

	listener      net.Listener
	clientCounter uint32
}

// NewServer builds a Server ready to Listen and Serve. root must already be
// an absolute, weakly-canonical path; fs is the backing filesystem every
// session's commands operate on.
func NewServer(listenAddr, root string, fs afero.Fs, users map[string]string, logger ftplog.Logger) *Server {
	return &Server{
		Logger:     logger,
		listenAddr: listenAddr,
		root:       root,
		fs:         fs,
		users:      users,
	}
}

// Listen opens the control-connection listener. It is not a blocking call.
func (server *Server) Listen() error {
	listener, err := net.Listen("tcp", server.listenAddr)
	if err != nil {
		server.Logger.Error("cannot listen on main port", "err", err, "listenAddr", server.listenAddr)

		return newNetworkError("cannot listen on main port", err)
	}

	server.listener = listener
	server.Logger.Info("listening", "address", server.listener.Addr())

	return nil
}

// Serve accepts and runs every incoming client connection until the
// listener is closed or a non-recoverable accept error occurs.
func (server *Server) Serve() error {
	var tempDelay time.Duration

	for {
		conn, err := server.listener.Accept()
		if err != nil {
			if stop, finalErr := server.handleAcceptError(err, &tempDelay); stop {
				return finalErr
			}

			continue
		}

		tempDelay = 0

		server.clientArrival(conn)
	}
}

// handleAcceptError decides whether an Accept failure should stop the
// server (closed listener, non-temporary network error) or just be logged
// and retried after a growing backoff.
func (server *Server) handleAcceptError(err error, tempDelay *time.Duration) (bool, error) {
	if errOp := (&net.OpError{}); errors.As(err, &errOp) {
		if errOp.Err.Error() == "use of closed network connection" {
			server.listener = nil

			return true, nil
		}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Temporary() { //nolint:staticcheck
		if *tempDelay == 0 {
			*tempDelay = 5 * time.Millisecond
		} else {
			*tempDelay *= 2
		}

		if max := 1 * time.Second; *tempDelay > max {
			*tempDelay = max
		}

		server.Logger.Warn("accept error, retrying", "err", err, "delay", *tempDelay)
		time.Sleep(*tempDelay)

		return false, nil
	}

	server.Logger.Error("listener accept error", "err", err)

	return true, newNetworkError("listener accept error", err)
}

// ListenAndServe chains Listen and Serve.
func (server *Server) ListenAndServe() error {
	if err := server.Listen(); err != nil {
		return err
	}

	server.Logger.Info("starting")

	return server.Serve()
}

// Addr reports the listening address, or "" before Listen succeeds.
func (server *Server) Addr() string {
	if server.listener != nil {
		return server.listener.Addr().String()
	}

	return ""
}

// Stop closes the listener, ending Serve's accept loop.
func (server *Server) Stop() error {
	if server.listener == nil {
		return ErrNotListening
	}

	if err := server.listener.Close(); err != nil {
		server.Logger.Warn("could not close listener", "err", err)

		return newNetworkError("couldn't close listener", err)
	}

	return nil
}

// clientArrival spins up a Session for a freshly accepted connection and
// runs its command loop on its own goroutine: sessions never share state,
// so there is nothing to synchronize between them.
func (server *Server) clientArrival(conn net.Conn) {
	server.clientCounter++
	id := server.clientCounter

	session := NewSession(conn, server.fs, server.root, server.users, server.Logger)

	server.Logger.Debug("client connected", "clientIp", conn.RemoteAddr(), "id", id)

	go func() {
		session.Run()
		server.Logger.Debug("client disconnected", "clientIp", conn.RemoteAddr(), "id", id)
	}()
}

// temporaryError reports whether a syscall-level error is the kind of
// transient accept failure that warrants a retry rather than a shutdown.
func temporaryError(err net.Error) bool {
	if syscallErrNo := new(syscall.Errno); errors.As(err, syscallErrNo) {
		if *syscallErrNo == syscall.ECONNABORTED || *syscallErrNo == syscall.ECONNRESET {
			return true
		}
	}

	return false
}

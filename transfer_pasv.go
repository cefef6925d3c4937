package ftpserver

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// passiveTransferHandler listens on an ephemeral port and hands the driver
// the single connection the client dials in on.
type passiveTransferHandler struct {
	listener   *net.TCPListener
	port       int
	connection net.Conn
}

func (p *passiveTransferHandler) Open() (net.Conn, error) {
	if err := p.listener.SetDeadline(time.Now().Add(connectionTimeout)); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	conn, err := p.listener.Accept()
	if err != nil {
		return nil, err
	}

	p.connection = conn

	return conn, nil
}

func (p *passiveTransferHandler) Close() error {
	if p.connection != nil {
		_ = p.connection.Close()
	}

	return p.listener.Close()
}

// currentIP returns the quad-dotted octets to encode in the PASV reply: the
// local address of the control connection, since no public-host override is
// part of this specification's configuration surface.
func (s *Session) currentIP() []string {
	host, _, err := net.SplitHostPort(s.conn.LocalAddr().String())
	if err != nil {
		host = s.conn.LocalAddr().String()
	}

	return strings.Split(host, ".")
}

func (s *Session) handlePASV(string) (int, string) {
	s.closeTransfer()

	listenCfg := net.ListenConfig{Control: Control}

	ln, err := listenCfg.Listen(context.Background(), "tcp", "0.0.0.0:0")
	if err != nil {
		s.logger.Error("could not open passive listener", "err", err)

		return StatusCantOpenDataConn, fmt.Sprintf("Could not listen for passive connection: %v", err)
	}

	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		_ = ln.Close()

		return StatusCantOpenDataConn, "Could not listen for passive connection"
	}

	port := tcpLn.Addr().(*net.TCPAddr).Port

	s.transfer = &passiveTransferHandler{listener: tcpLn, port: port}

	p1 := port / 256
	p2 := port - p1*256
	quads := s.currentIP()

	return StatusEnteringPassive, fmt.Sprintf(
		"Entering Passive Mode (%s,%s,%s,%s,%d,%d)", quads[0], quads[1], quads[2], quads[3], p1, p2)
}

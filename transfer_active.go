package ftpserver

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// ErrRemoteAddrFormat is returned when a PORT argument doesn't decode to
// exactly six comma-separated decimal octets.
var ErrRemoteAddrFormat = errors.New("remote address has a bad format")

var remoteAddrRegex = regexp.MustCompile(`^([0-9]{1,3},){5}[0-9]{1,3}$`)

// activeTransferHandler dials the address the client announced with PORT.
type activeTransferHandler struct {
	raddr *net.TCPAddr
	conn  net.Conn
}

func (a *activeTransferHandler) Open() (net.Conn, error) {
	dialer := &net.Dialer{Timeout: connectionTimeout}

	conn, err := dialer.Dial("tcp", a.raddr.String())
	if err != nil {
		return nil, fmt.Errorf("could not establish active connection: %w", err)
	}

	a.conn = conn

	return conn, nil
}

func (a *activeTransferHandler) Close() error {
	if a.conn != nil {
		return a.conn.Close()
	}

	return nil
}

// parsePORTAddr parses the six comma-separated decimal octets of a PORT
// argument (h1,h2,h3,h4,p1,p2) into a TCP address, rejecting anything that
// isn't exactly six well-formed octets.
func parsePORTAddr(param string) (*net.TCPAddr, error) {
	if !remoteAddrRegex.MatchString(param) {
		return nil, fmt.Errorf("could not parse %q: %w", param, ErrRemoteAddrFormat)
	}

	parts := strings.Split(param, ",")

	ip := strings.Join(parts[0:4], ".")

	p1, err := strconv.Atoi(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRemoteAddrFormat, err)
	}

	p2, err := strconv.Atoi(parts[5])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRemoteAddrFormat, err)
	}

	for _, octet := range parts {
		v, _ := strconv.Atoi(octet)
		if v < 0 || v > 255 {
			return nil, ErrRemoteAddrFormat
		}
	}

	port := p1<<8 + p2

	return net.ResolveTCPAddr("tcp", fmt.Sprintf("%s:%d", ip, port))
}

func (s *Session) handlePORT(param string) (int, string) {
	raddr, err := parsePORTAddr(param)
	if err != nil {
		return StatusBadArguments, fmt.Sprintf("Problem parsing %q: %v", param, err)
	}

	s.closeTransfer()
	s.transfer = &activeTransferHandler{raddr: raddr}

	return StatusOK, "PORT command successful"
}

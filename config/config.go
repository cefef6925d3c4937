// Package config parses the server's command-line surface and the
// username:password users file, grounded on the original implementation's
// argparse.hpp/globals.hpp defaults but expressed with the standard
// library's flag package.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
)

// Defaults mirror the original implementation's globals.hpp.
const (
	DefaultPort      = 2020
	DefaultRoot      = "myftpserver"
	DefaultUsersFile = "users.txt"
)

// ErrHelpRequested is returned by Parse when -h/--help was given; the
// caller should print usage and exit 0 without starting the server.
var ErrHelpRequested = errors.New("help requested")

// Config holds the fully parsed, validated CLI surface.
type Config struct {
	Port      int
	LogPath   string
	Root      string
	UsersFile string
}

// Parse parses args (normally os.Args[1:]) into a Config. A bare positional
// integer is accepted as the port, overridden by an explicit -p/--port. Usage
// text is written to out when -h/--help is requested or a parse error
// occurs.
func Parse(args []string, out io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("ftpd", flag.ContinueOnError)
	fs.SetOutput(out)

	var port int

	var root, logPath string

	fs.IntVar(&port, "p", 0, "listen port")
	fs.IntVar(&port, "port", 0, "listen port")
	fs.StringVar(&logPath, "l", "", "append log lines to this file, in addition to stdout")
	fs.StringVar(&logPath, "log", "", "append log lines to this file, in addition to stdout")
	fs.StringVar(&root, "d", "", "server root directory, created if absent")
	fs.StringVar(&root, "directory", "", "server root directory, created if absent")

	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: ftpd [port] [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelpRequested
		}

		return nil, err
	}

	if root == "" {
		root = DefaultRoot
	}

	if port == 0 {
		var err error

		port, err = positionalPort(fs.Args())
		if err != nil {
			return nil, err
		}
	}

	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 0 and 65535", port)
	}

	return &Config{
		Port:      port,
		LogPath:   logPath,
		Root:      root,
		UsersFile: DefaultUsersFile,
	}, nil
}

// positionalPort looks for the bare integer argument documented as an
// alternative to -p/--port. Absent any, it returns the default port.
func positionalPort(rest []string) (int, error) {
	if len(rest) == 0 {
		return DefaultPort, nil
	}

	port, err := strconv.Atoi(rest[0])
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", rest[0], err)
	}

	return port, nil
}

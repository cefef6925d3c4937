// Command ftpd runs the FTP server defined by package ftpserver: it parses
// the CLI surface, loads the users file, wires a logger and the real
// filesystem, and blocks serving control connections until terminated.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"ftpserver"
	"ftpserver/config"
	"ftpserver/ftplog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args, os.Stdout)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return 0
		}

		fmt.Fprintln(os.Stderr, "ERROR!", err)

		return 1
	}

	logger, err := ftplog.New(cfg.LogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR! could not open log file:", err)

		return 1
	}

	users, err := config.LoadUsers(cfg.UsersFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR! could not read users file:", err)

		return 1
	}

	if len(users) == 0 {
		fmt.Fprintf(os.Stderr,
			"ERROR! no user file %q with the list of valid users and passwords.\n"+
				"Put this file next to the executable. The format is username:password.\n",
			cfg.UsersFile)
	}

	root, err := ftpserver.ResolveRoot(cfg.Root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR! could not prepare server root:", err)

		return 1
	}

	logger.Info("server root resolved", "root", root)

	server := ftpserver.NewServer(fmt.Sprintf(":%d", cfg.Port), root, afero.NewOsFs(), users, logger)

	if err := server.Listen(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR! creating the acceptor:", err)

		return 1
	}

	done := make(chan struct{})

	go waitForSignal(server, done)

	if err := server.Serve(); err != nil {
		select {
		case <-done:
			// Stop was requested, this accept error is expected.
		default:
			fmt.Fprintln(os.Stderr, "ERROR! in main FTP server accept loop:", err)

			return 1
		}
	}

	return 0
}

// waitForSignal stops the server on SIGINT/SIGTERM and closes done so run
// can distinguish a requested shutdown from a genuine accept failure.
func waitForSignal(server *ftpserver.Server, done chan struct{}) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	<-ch
	close(done)
	_ = server.Stop()
}

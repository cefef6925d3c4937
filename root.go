package ftpserver

import (
	"os"
	"path/filepath"
)

// ResolveRoot turns the -d/--directory argument into the absolute,
// weakly-canonical server root the sandbox is built against, creating the
// directory if it doesn't already exist. filepath.Abs already performs the
// lexical cleaning (collapsing "." and ".." without touching the
// filesystem) that "weakly-canonical" calls for.
func ResolveRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", newDriverError("could not resolve server root", err)
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(abs, 0o755); mkErr != nil {
			return "", newDriverError("could not create server root", mkErr)
		}
	case err != nil:
		return "", newDriverError("could not stat server root", err)
	case !info.IsDir():
		return "", newDriverError("server root exists and is not a directory", os.ErrExist)
	}

	return abs, nil
}

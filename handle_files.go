package ftpserver

import (
	"fmt"
	"io"
	"os"
	"path"
)

// handleSTOR receives a file over the negotiated data connection and writes
// it into the sandbox, truncating any existing file at that path.
func (s *Session) handleSTOR(param string) (int, string) {
	target, ok := resolve(s.root, s.cwd, param)
	if !ok {
		return StatusActionNotTaken, "Invalid path or no access"
	}

	parent, err := s.fs.Stat(path.Dir(target))
	if err != nil || !parent.IsDir() {
		return StatusActionNotTaken, "Invalid path or no access"
	}

	if info, err := s.fs.Stat(target); err == nil && info.IsDir() {
		return StatusActionNotTaken, "Cannot overwrite a directory"
	}

	dst, err := s.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return StatusActionNotTaken, fmt.Sprintf("Could not access file: %v", err)
	}

	conn, err := s.transferOpen()
	if err != nil {
		_ = dst.Close()

		return StatusCantOpenDataConn, fmt.Sprintf("Could not open data connection: %v", err)
	}

	s.writeMessage(StatusAboutToSend, fmt.Sprintf("Data connection accepted, storing %s", target))

	written, copyErr := drainToFile(dst, conn)
	closeErr := dst.Close()
	s.transferClose()

	s.logger.Debug("stream copy finished", "writtenBytes", written, "path", target)

	if copyErr != nil {
		return StatusTransferAborted, fmt.Sprintf("Error writing file: %v", copyErr)
	}

	if closeErr != nil {
		return StatusTransferAborted, fmt.Sprintf("Error closing file: %v", closeErr)
	}

	return StatusTransferComplete, "Transfer complete"
}

// drainToFile pulls the upload off conn through a lineBuffer's bulk read,
// BufSize bytes at a time, until read reports EOF with an empty chunk.
func drainToFile(dst io.Writer, conn io.Reader) (int64, error) {
	lb := newLineBuffer()

	var total int64

	for {
		chunk := lb.read(conn)
		if len(chunk) == 0 {
			return total, nil
		}

		n, err := dst.Write(chunk)
		total += int64(n)

		if err != nil {
			return total, err
		}
	}
}

// handleRETR sends an existing, non-directory file to the client over the
// negotiated data connection.
func (s *Session) handleRETR(param string) (int, string) {
	target, ok := resolve(s.root, s.cwd, param)
	if !ok {
		return StatusActionNotTaken, "Invalid path or no access"
	}

	info, err := s.fs.Stat(target)
	if err != nil {
		return StatusActionNotTaken, fmt.Sprintf("Could not access file: %v", err)
	}

	if info.IsDir() {
		return StatusActionNotTaken, "Cannot RETR a directory"
	}

	src, err := s.fs.Open(target)
	if err != nil {
		return StatusActionNotTaken, fmt.Sprintf("Could not access file: %v", err)
	}
	defer src.Close()

	conn, err := s.transferOpen()
	if err != nil {
		return StatusCantOpenDataConn, fmt.Sprintf("Could not open data connection: %v", err)
	}

	s.writeMessage(StatusAboutToSend, fmt.Sprintf("Data connection accepted, sending %s (%d bytes)", target, info.Size()))

	w := newStreamWriter(conn)

	written, copyErr := io.Copy(w, src)
	flushErr := w.Flush()
	s.transferClose()

	s.logger.Debug("stream copy finished", "writtenBytes", written, "path", target)

	if copyErr != nil {
		return StatusTransferAborted, fmt.Sprintf("Error reading file: %v", copyErr)
	}

	if flushErr != nil {
		return StatusTransferAborted, fmt.Sprintf("Error flushing data connection: %v", flushErr)
	}

	return StatusTransferComplete, "Transfer complete"
}

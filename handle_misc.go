package ftpserver

import "strings"

func (s *Session) handleQUIT(string) (int, string) {
	s.active = false

	return StatusClosing, "Goodbye"
}

func (s *Session) handleSYST(string) (int, string) {
	return StatusOK, "UNIX Type: L8"
}

func (s *Session) handleNOOP(string) (int, string) {
	return StatusOK, "OK"
}

// helpText mirrors the usage/description pairs of the source's command
// help table, restricted to the verbs this server implements.
var helpText = []string{
	"USER <sp> username",
	"PASS <sp> password",
	"REIN",
	"QUIT",
	"TYPE <sp> A | I",
	"MODE <sp> S",
	"STRU <sp> F",
	"SYST",
	"PASV",
	"PORT <sp> h1,h2,h3,h4,p1,p2",
	"PWD",
	"CWD <sp> pathname",
	"CDUP",
	"MKD <sp> pathname",
	"LIST [<sp> pathname]",
	"STOR <sp> pathname",
	"RETR <sp> pathname",
}

func (s *Session) handleHELP(string) (int, string) {
	return StatusHelp, strings.Join(helpText, "\n")
}

func (s *Session) handleTYPE(param string) (int, string) {
	switch param {
	case "I":
		s.transferType = TransferTypeImage

		return StatusOK, "Type set to I"
	case "A", "A N":
		s.transferType = TransferTypeASCII

		return StatusOK, "Type set to A"
	default:
		return StatusNotImplementedArg, "Unsupported type"
	}
}

func (s *Session) handleMODE(param string) (int, string) {
	if param != "S" {
		return StatusNotImplementedArg, "Only stream mode is supported"
	}

	return StatusOK, "Mode set to S"
}

func (s *Session) handleSTRU(param string) (int, string) {
	if param != "F" {
		return StatusNotImplementedArg, "Only file structure is supported"
	}

	return StatusOK, "Structure set to F"
}

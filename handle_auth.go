package ftpserver

import "strings"

// handleUSER implements USER name: always clears any prior credentials
// first, then requires exactly one non-empty, known username before asking
// for a password.
func (s *Session) handleUSER(param string) (int, string) {
	s.user = credentials{}

	if param == "" {
		return StatusBadArguments, "Missing username"
	}

	if strings.Contains(param, " ") {
		return StatusBadArguments, "Too many arguments"
	}

	if _, known := s.users[param]; !known {
		return StatusBadCredentials, "Invalid username supplied"
	}

	s.user.name = param

	return StatusNeedPassword, "Need user password"
}

// handlePASS implements PASS password: only valid directly after a
// successful USER, and only completes authentication on a matching
// password. On any failure the credentials are cleared, per the
// authenticated-iff-both-non-empty invariant.
func (s *Session) handlePASS(param string) (int, string) {
	if s.prevCommand != "USER" {
		s.user = credentials{}

		return StatusBadCommandSeq, "Login with USER first"
	}

	if s.user.name == "" {
		return StatusNotLoggedIn, "Login with USER first"
	}

	if param == "" {
		s.user = credentials{}

		return StatusBadArguments, "Missing password"
	}

	if strings.Contains(param, " ") {
		s.user = credentials{}

		return StatusBadArguments, "Too many arguments"
	}

	expected, known := s.users[s.user.name]
	if !known || expected != param {
		s.user = credentials{}

		return StatusBadCredentials, "Invalid password supplied, relogin"
	}

	s.user.password = param
	s.logger = s.logger.With("user", s.user.name)

	return StatusUserLoggedIn, "Password ok, continue"
}

// handleREIN implements REIN: reinitialize by clearing authentication,
// leaving the connection itself open.
func (s *Session) handleREIN(string) (int, string) {
	s.user = credentials{}

	return StatusReady, "Ready for new user"
}

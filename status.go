package ftpserver

// Reply codes, grouped by the RFC 959 family they belong to. Only the codes
// this server actually emits are named; there is no attempt to enumerate the
// full RFC 959 code space.
const (
	StatusAboutToSend      = 125 // 1xx: about to begin data transfer
	StatusHelp             = 214 // 2xx
	StatusOK               = 200
	StatusReady            = 220
	StatusClosing          = 221
	StatusDataConnClosing  = 225
	StatusTransferComplete = 226
	StatusEnteringPassive  = 227
	StatusUserLoggedIn     = 230
	StatusPathCreated      = 257

	StatusNeedPassword = 331 // 3xx

	StatusCantOpenDataConn = 425 // 4xx
	StatusTransferAborted  = 426
	StatusServerWillClose  = 421

	StatusSyntaxError       = 500 // 5xx
	StatusBadArguments      = 501
	StatusCommandUnknown    = 502
	StatusBadCommandSeq     = 503
	StatusNotImplementedArg = 504
	StatusNotLoggedIn       = 530
	StatusActionNotTaken    = 550
	StatusBadCredentials    = 430
)

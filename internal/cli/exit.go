package cli

import (
	"github.com/joseph-ayodele/office-extract/internal/common"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1 // nothing extracted, or an output could not be written
	ExitConfig = 2 // bad input, flags or configuration; nothing was written
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case common.IsConfigError(err):
		return ExitConfig
	default:
		return ExitFailed
	}
}

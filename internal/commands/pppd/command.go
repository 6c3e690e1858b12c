package pppdcli

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251124-pppd/internal/version"
)

// 退出码，与 pppd 保持一致
const (
	ExitOK          = 0
	ExitFatalError  = 1
	ExitOptionError = 2
)

// Command returns the pppd CLI command. pppd options are not flags, so
// argument parsing is left entirely to the option engine.
func Command() *cli.Command {
	return &cli.Command{
		Name:            "pppd",
		Usage:           "Point-to-Point Protocol daemon",
		ArgsUsage:       "[ options ]",
		Version:         version.Version,
		SkipFlagParsing: true,
		HideHelp:        true,
		HideVersion:     true,
		Action:          action,
	}
}

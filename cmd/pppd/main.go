package main

import (
	"context"
	"fmt"
	"os"

	pppdcli "github.com/lwmacct/251124-pppd/internal/commands/pppd"
)

func main() {
	cmd := pppdcli.Command()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(pppdcli.ExitFatalError)
	}
}

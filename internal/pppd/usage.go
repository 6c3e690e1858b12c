package pppd

import (
	"fmt"

	"github.com/lwmacct/251124-pppd/internal/option"
	"github.com/lwmacct/251124-pppd/internal/version"
)

// BugReportURL is shown in the usage text.
const BugReportURL = "https://github.com/ppp-project/ppp"

const usageOptions = `   <device>        Communicate over the named device
   <speed>         Set the baud rate to <speed>
   <loc>:<rem>     Set the local and/or remote interface IP
                   addresses.  Either one may be omitted.
   asyncmap <n>    Set the desired async map to hex <n>
   auth            Require authentication from peer
   connect <p>     Invoke shell command <p> to set up the serial line
   crtscts         Use hardware RTS/CTS flow control
   file <f>        Take options from file <f>
   modem           Use modem control lines
   mru <n>         Set MRU value to <n> for negotiation
   show-options    Display an extended list of options
See pppd(8) for more options.
`

// usage writes the brief option listing to stderr. It prints nothing
// once the daemon is running.
func (d *Daemon) usage() {
	if d.phase != option.PhaseInitialize {
		return
	}
	w := d.stderr
	fmt.Fprintf(w, "pppd v%s\n", version.Version)
	fmt.Fprintf(w, "Copyright (C) 1999-2024 Paul Mackerras, and others. All rights reserved.\n\n")
	fmt.Fprintf(w, "License BSD: The 3 clause BSD license <https://opensource.org/licenses/BSD-3-Clause>\n")
	fmt.Fprintf(w, "This is free software: you are free to change and redistribute it.\n")
	fmt.Fprintf(w, "There is NO WARRANTY, to the extent permitted by law.\n\n")
	fmt.Fprintf(w, "Report Bugs:\n   %s\n\n", BugReportURL)
	fmt.Fprintf(w, "Usage: %s [ options ], where options are:\n", d.progname)
	fmt.Fprint(w, usageOptions)
}

// Package version holds the daemon version. Plugins must be built for the
// same version.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/lwmacct/251124-pppd/internal/version.Version=...".
var Version = "2.5.2"

// Banner is the line printed by --version.
func Banner() string {
	return "pppd version " + Version
}

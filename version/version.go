package version

const (
	// Program is the XMLTV grabber name, also used for the default config file.
	Program = "tv_grab_fr_sfr"
	URL     = "https://github.com/melmorabity/tv_grab_fr_sfr"

	Description = "France (SFR)"
)

var (
	// Version is populated by the build system (ldflags).
	Version = "1.0"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// Capabilities lists the XMLTV grabber capabilities implemented by this program.
var Capabilities = []string{"baseline", "manualconfig"}

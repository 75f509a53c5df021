package version

import (
	"regexp"

	"github.com/fatih/color"
)

// Overridden at build time via -ldflags "-X mend/internal/version.Version=...".
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	semver = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(.*)$`)
	parts  = [3]*color.Color{
		color.New(color.FgYellow, color.Bold),
		color.New(color.FgGreen, color.Bold),
		color.New(color.FgBlue, color.Bold),
	}
)

// Colored renders v with major, minor and patch in separate colors.
// Anything that is not major.minor.patch is returned unchanged.
func Colored(v string) string {
	m := semver.FindStringSubmatch(v)
	if m == nil {
		return v
	}
	return parts[0].Sprint(m[1]) + "." + parts[1].Sprint(m[2]) + "." + parts[2].Sprint(m[3]) + m[4]
}

// Package buildinfo carries build metadata set with -ldflags -X.
package buildinfo

import "fmt"

var (
	BuildVersion string
	BuildDate    string
	BuildCommit  string
)

// Info is the build metadata shown on the settings screen and at startup.
type Info struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// Current returns the linked-in build metadata, "N/A" for unset values.
func Current() Info {
	return Info{
		Version: orNA(BuildVersion),
		Date:    orNA(BuildDate),
		Commit:  orNA(BuildCommit),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Version, i.Commit, i.Date)
}

func PrintBuildInfo() {
	i := Current()
	fmt.Printf("Build version: %s\n", i.Version)
	fmt.Printf("Build date: %s\n", i.Date)
	fmt.Printf("Build commit: %s\n", i.Commit)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

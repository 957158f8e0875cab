package config

import "fmt"

const notSet string = "not set"

// these information will be collected when build, by `-ldflags "-X github.com/capcom6/fschange/internal/config.appVersion=0.1"`.
//
//nolint:gochecknoglobals // build metadata
var (
	appVersion = notSet
	buildTime  = notSet
	gitCommit  = notSet
	gitRef     = notSet
)

func version() string {
	return fmt.Sprintf("%s (built %s, commit %s, ref %s)", appVersion, buildTime, gitCommit, gitRef)
}

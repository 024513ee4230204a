package core

import (
	"fmt"

	"go.uber.org/zap"
)

// Version is the engine version reported in logs and the version heartbeat.
// It is resolved once at startup: build flag first, then config, then the
// unversioned placeholder.
var Version string

const NoVersion = "unversioned"

func SetVersion(c *Conf, buildFlagVersion string) {
	switch {
	case buildFlagVersion != "":
		Version = buildFlagVersion
	case c.Version != "":
		Version = c.Version
	default:
		Version = NoVersion
	}
	zap.L().Info(fmt.Sprintf("engine version:%s", Version))
}

package csversion

import "github.com/blang/semver/v4"

// Version of the csversion tool.
var Version = semver.MustParse("1.0.0")

package liftnav

import _ "embed"

// Version is the liftnav release, read from the VERSION file at build time.
//
//go:embed VERSION
var Version string

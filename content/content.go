// Package content embeds the default dungeon: zone YAML and Lua hook scripts.
package content

import "embed"

// FS holds the zones/ and scripts/ trees.
//
//go:embed zones scripts
var FS embed.FS

// Directory names inside FS.
const (
	ZonesDir   = "zones"
	ScriptsDir = "scripts"
)

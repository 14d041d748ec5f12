package migration

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

//go:build !cgo

package loader

import _ "modernc.org/sqlite"

const sqliteDriver = "sqlite"

// Package db embeds the Postgres schema.
package db

import _ "embed"

// Schema is the idempotent DDL of every table the service uses.
//
//go:embed schema.sql
var Schema string

// Package db ships the SQL migrations used by the reporting service.
package db

import "embed"

// Migrations chứa các file golang-migrate (NNNNNN_name.up.sql / .down.sql)
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the files.
const MigrationsDir = "migrations"

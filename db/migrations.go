package db

import "embed"

// Migrations holds the goose SQL files, rooted at MigrationsDir.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"

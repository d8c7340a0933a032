package database

import "embed"

// MigrationsFS содержит встроенные SQL миграции. Применяются через
// pkg/migration при старте сервиса.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsPath — путь к миграциям внутри MigrationsFS.
const MigrationsPath = "migrations"

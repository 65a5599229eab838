package schemas

import "embed"

// SchemasFS содержит JSON-схемы всех событий, передаваемых через брокер.
// Схемы версионируются по пути: events/<имя-события>/v<версия>.json
//
//go:embed events
var SchemasFS embed.FS

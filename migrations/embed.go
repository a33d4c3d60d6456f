// Package migrations содержит SQL-схему хранилища витрины
package migrations

import "embed"

// FS - встроенные файлы миграций в формате golang-migrate
//
//go:embed *.sql
var FS embed.FS

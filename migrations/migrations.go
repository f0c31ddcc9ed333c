// Package migrations nhúng SQL schema để cmd/migrate chạy được từ bất kỳ thư mục nào
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

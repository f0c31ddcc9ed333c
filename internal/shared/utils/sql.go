package utils

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern build pattern cho LIKE/ILIKE "chứa chuỗi"
// Ký tự đặc biệt được escape bằng backslash (escape mặc định của PostgreSQL)
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

package repositories

import "strings"

// likeEscape is the escape character for LIKE patterns. A backslash is avoided
// because MySQL and PostgreSQL disagree on how to write it as a literal.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a lower-cased LIKE pattern that matches term as a literal substring.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// likeColumn is a case-insensitive LIKE condition on column using containsPattern.
func likeColumn(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '" + likeEscape + "'"
}

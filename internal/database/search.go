package database

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns free text into an ILIKE pattern matching any
// value that contains q. Wildcards in q are matched literally and an
// empty q matches everything.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// roomSearchPredicate matches a room whose topic name, name or
// description contains the pattern bound to $1. The topic join must be
// an outer join so rooms without a topic can still match on their own
// fields.
const roomSearchPredicate = `(t.name ILIKE $1 ESCAPE '\' OR r.name ILIKE $1 ESCAPE '\' OR r.description ILIKE $1 ESCAPE '\')`

package services

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applySearch requires every whitespace-separated term to match at least one
// of columns, case-insensitively.
func applySearch(db *gorm.DB, search string, columns ...string) *gorm.DB {
	for _, term := range strings.Fields(search) {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(COALESCE(" + col + ", '')) LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return db
}

// applyOrdering maps a ?ordering= value through allowed; unknown values fall
// back to def.
func applyOrdering(db *gorm.DB, ordering string, allowed map[string]string, def string) *gorm.DB {
	if clause, ok := allowed[strings.TrimSpace(ordering)]; ok {
		return db.Order(clause)
	}
	return db.Order(def)
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrievalFilterWhereClauseEmpty(t *testing.T) {
	var args []any
	where := RetrievalFilter{}.whereClause(&args, 1)
	assert.Equal(t, "TRUE", where)
	assert.Empty(t, args)
}

func TestRetrievalFilterWhereClauseCombinesConditions(t *testing.T) {
	var args []any
	f := RetrievalFilter{
		Languages:      []string{"go", "python"},
		SymbolTypes:    []string{"function"},
		SymbolNameGlob: "Handle%",
	}
	where := f.whereClause(&args, 1)
	assert.Equal(t, "language_id = ANY($2) AND symbol_type = ANY($3) AND symbol_name LIKE $4", where)
	assert.Len(t, args, 3)
}

func TestRetrievalFilterWhereClausePrefersExactSymbolNamesOverGlob(t *testing.T) {
	var args []any
	f := RetrievalFilter{
		SymbolNameGlob: "Handle%",
		SymbolNames:    []string{"HandleRequest", "HandleResponse"},
	}
	where := f.whereClause(&args, 0)
	assert.Equal(t, "symbol_name = ANY($1)", where)
	assert.Len(t, args, 1)
}

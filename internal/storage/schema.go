// Package storage implements Schema & Storage (C5): per-index chunk and
// parse-results tables in PostgreSQL, with pgvector for the dense column
// and a generated tsvector column for lexical search. Grounded on the
// pgx/pgvector-go wiring pattern shown for a sibling code-search tool in
// the retrieval pack; table naming, column-presence probing, and the
// identifier-regex validation are cocosearch's own (spec.md §4.5).
package storage

import (
	"fmt"
	"regexp"
)

// identifierPattern is the only shape an index name (and therefore a table
// name segment) may take — it is interpolated directly into DDL, so it
// must be validated before that happens (spec.md §3 "Index", §4.5).
var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateIndexName reports whether name is safe to interpolate into a
// table identifier.
func ValidateIndexName(name string) bool {
	return identifierPattern.MatchString(name)
}

// ChunksTable returns the legacy-convention chunk table name for an index
// (spec.md §4.4 "Table naming"): preserved verbatim from the naming this
// spec grew out of.
func ChunksTable(indexName string) string {
	return fmt.Sprintf("codeindex_%s__%s_chunks", indexName, indexName)
}

// ParseResultsTable returns the parse-health table name for an index.
func ParseResultsTable(indexName string) string {
	return fmt.Sprintf("cocosearch_parse_results_%s", indexName)
}

// schemaDDL renders the idempotent CREATE statements for one index's
// tables and indexes. vectorDim is the embedding dimension reported by
// the configured embedding endpoint.
func schemaDDL(indexName string, vectorDim int) string {
	chunks := ChunksTable(indexName)
	parseResults := ParseResultsTable(indexName)
	return fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS %[1]s (
	filename          TEXT NOT NULL,
	start_byte        INT NOT NULL,
	end_byte          INT NOT NULL,
	content_text      TEXT NOT NULL,
	content_tsv_input TEXT NOT NULL,
	embedding         vector(%[3]d) NOT NULL,
	language_id       TEXT NOT NULL,
	block_type        TEXT NOT NULL,
	hierarchy         TEXT NOT NULL DEFAULT '',
	symbol_type       TEXT,
	symbol_name       TEXT,
	symbol_signature  TEXT,
	content_hash      TEXT NOT NULL,
	content_tsv       tsvector GENERATED ALWAYS AS (to_tsvector('simple', content_tsv_input)) STORED,
	PRIMARY KEY (filename, start_byte, end_byte)
);

CREATE INDEX IF NOT EXISTS %[1]s_embedding_ivfflat
	ON %[1]s USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);

CREATE INDEX IF NOT EXISTS %[1]s_content_tsv_gin
	ON %[1]s USING GIN (content_tsv);

CREATE INDEX IF NOT EXISTS %[1]s_symbol_type_name_btree
	ON %[1]s (symbol_type, symbol_name);

CREATE INDEX IF NOT EXISTS %[1]s_language_id_btree
	ON %[1]s (language_id);

CREATE TABLE IF NOT EXISTS %[2]s (
	file_path     TEXT PRIMARY KEY,
	language      TEXT NOT NULL,
	parse_status  TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS %[2]s_language_status_idx
	ON %[2]s (language, parse_status);
`, chunks, parseResults, vectorDim)
}

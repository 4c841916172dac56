// Package vocab defines the closed vocabularies every query draws from.
//
// Two kinds of set live here. Operators, functions, directions, join kinds
// and combinators are closed at compile time: they are string constants
// with exhaustive switches at every consumer. Tables and columns are closed
// at runtime: a Vocabulary enrolls the identifier sets once, and the only
// way to obtain a Table or Column value is to resolve a name against it.
//
// Identifiers are validated against a conservative lexical rule when the
// vocabulary is built, so downstream rendering can emit them verbatim with
// no quoting or escaping.
package vocab

import (
	"regexp"
	"sort"
)

// identifierPattern is the lexical rule for tables, columns and aliases.
// Anything matching it renders into SQL verbatim without escaping.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s satisfies the identifier rule.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Table is a validated table identifier. The zero value is invalid;
// values come from Vocabulary.Table.
type Table struct {
	name string
}

// Name returns the table identifier.
func (t Table) Name() string { return t.name }

// IsZero reports whether t is the invalid zero Table.
func (t Table) IsZero() bool { return t.name == "" }

// Column is a validated column identifier. The zero value is invalid;
// values come from Vocabulary.Column.
type Column struct {
	name string
}

// Name returns the column identifier.
func (c Column) Name() string { return c.name }

// IsZero reports whether c is the invalid zero Column.
func (c Column) IsZero() bool { return c.name == "" }

// Vocabulary is an immutable closed set of table and column identifiers.
//
// Definitions group columns under tables, and the grouping is preserved
// for schema-aware tooling. Membership checks are set-global: a column
// declared by any table resolves. Whether a column actually belongs to
// the table a query reads it from is left to the executing database,
// the same way SELECT/GROUP BY consistency is.
type Vocabulary struct {
	version string
	tables  []tableDef
	index   map[string]int
	columns map[string]bool
}

type tableDef struct {
	name    string
	columns []string
}

// New builds a Vocabulary from a version label and table definitions.
// Every identifier must satisfy the lexical rule; the version may be any
// non-empty string. Tables and columns are stored sorted so iteration
// order and the fingerprint are stable.
func New(version string, tables map[string][]string) (*Vocabulary, error) {
	if version == "" {
		return nil, &VocabularyError{Code: ErrCodeEmptyVocabulary, Message: "version is required"}
	}
	if len(tables) == 0 {
		return nil, &VocabularyError{Code: ErrCodeEmptyVocabulary, Message: "at least one table is required"}
	}

	v := &Vocabulary{
		version: version,
		tables:  make([]tableDef, 0, len(tables)),
		index:   make(map[string]int, len(tables)),
		columns: make(map[string]bool),
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !ValidIdentifier(name) {
			return nil, &VocabularyError{Code: ErrCodeBadIdentifier, Message: "table name is not a valid identifier", Value: name}
		}
		cols := tables[name]
		if len(cols) == 0 {
			return nil, &VocabularyError{Code: ErrCodeEmptyVocabulary, Message: "table declares no columns", Value: name}
		}

		def := tableDef{name: name, columns: make([]string, 0, len(cols))}
		seen := make(map[string]bool, len(cols))
		for _, col := range cols {
			if !ValidIdentifier(col) {
				return nil, &VocabularyError{Code: ErrCodeBadIdentifier, Message: "column name is not a valid identifier", Value: col}
			}
			if seen[col] {
				return nil, &VocabularyError{Code: ErrCodeDuplicateColumn, Message: "column declared twice in table " + name, Value: col}
			}
			seen[col] = true
			def.columns = append(def.columns, col)
			v.columns[col] = true
		}
		sort.Strings(def.columns)

		v.index[name] = len(v.tables)
		v.tables = append(v.tables, def)
	}

	return v, nil
}

// Version returns the definition's version label.
func (v *Vocabulary) Version() string { return v.version }

// Table resolves name against the table set.
func (v *Vocabulary) Table(name string) (Table, error) {
	if _, ok := v.index[name]; !ok {
		return Table{}, &VocabularyError{Code: ErrCodeUnknownTable, Message: "table is not in the vocabulary", Value: name}
	}
	return Table{name: name}, nil
}

// Column resolves name against the column set.
func (v *Vocabulary) Column(name string) (Column, error) {
	if !v.columns[name] {
		return Column{}, &VocabularyError{Code: ErrCodeUnknownColumn, Message: "column is not in the vocabulary", Value: name}
	}
	return Column{name: name}, nil
}

// Tables returns all table names in sorted order.
func (v *Vocabulary) Tables() []string {
	names := make([]string, len(v.tables))
	for i, def := range v.tables {
		names[i] = def.name
	}
	return names
}

// Columns returns the declared columns of one table in sorted order.
func (v *Vocabulary) Columns(table string) ([]string, error) {
	i, ok := v.index[table]
	if !ok {
		return nil, &VocabularyError{Code: ErrCodeUnknownTable, Message: "table is not in the vocabulary", Value: table}
	}
	out := make([]string, len(v.tables[i].columns))
	copy(out, v.tables[i].columns)
	return out, nil
}

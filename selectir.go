// Package selectir turns serialized query documents into SQL SELECT
// statements.
//
// The package is a facade over the layered core: vocab holds the closed
// identifier and token sets, ir holds the validated query
// representation and its codec, sqlgen renders SQL, and vocabcfg loads
// vocabulary definitions from CUE files. Callers that need only the
// common path install a vocabulary once and compile documents:
//
//	if _, err := selectir.InstallFile("vocabulary.cue"); err != nil {
//	    log.Fatal(err)
//	}
//	sql, err := selectir.Compile(document)
//
// Every document is fully validated during Decode; Translate cannot
// fail on a decoded query, so Compile has exactly one error surface.
package selectir

import (
	"github.com/pricelens/selectir/ir"
	"github.com/pricelens/selectir/sqlgen"
	"github.com/pricelens/selectir/vocab"
	"github.com/pricelens/selectir/vocabcfg"
)

// Query is a validated SELECT statement representation.
type Query = ir.Query

// Vocabulary is a closed set of table and column identifiers.
type Vocabulary = vocab.Vocabulary

// Install registers v as the process-wide vocabulary. A process
// installs exactly one vocabulary.
func Install(v *Vocabulary) error {
	return vocab.Install(v)
}

// InstallFile loads the CUE vocabulary definition at path and installs
// it, returning the loaded vocabulary.
func InstallFile(path string) (*Vocabulary, error) {
	v, err := vocabcfg.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := vocab.Install(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode parses a serialized query document against the installed
// vocabulary.
func Decode(data []byte) (Query, error) {
	v, err := vocab.Active()
	if err != nil {
		return Query{}, err
	}
	return ir.DecodeQuery(v, data)
}

// Translate renders a query as one SQL SELECT statement.
func Translate(q Query) (string, error) {
	return sqlgen.Translate(q)
}

// Compile decodes a serialized query document and renders it, in one
// call.
func Compile(data []byte) (string, error) {
	q, err := Decode(data)
	if err != nil {
		return "", err
	}
	return Translate(q)
}

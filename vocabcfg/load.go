// Package vocabcfg loads vocabulary definitions from CUE files.
//
// A definition declares a version label and the table/column identifier
// sets a deployment exposes:
//
//	vocabulary: {
//	    version: "2024-07"
//	    tables: {
//	        product_offers: ["offer_id", "price"]
//	    }
//	}
//
// Definitions are unified with an embedded schema before extraction, so
// structural problems surface as *LoadError with CUE position info.
// Problems with the identifiers themselves (bad lexical shape, duplicate
// columns) come back as *vocab.VocabularyError, unchanged.
//
// This package is the only file-reading code in the module; the core
// packages never touch the filesystem.
package vocabcfg

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"

	"github.com/pricelens/selectir/vocab"
)

//go:embed schema.cue
var schemaSource string

// Loader reads and validates vocabulary definitions. The zero value is
// ready to use and logs nowhere.
type Loader struct {
	Logger *slog.Logger
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Parse builds a vocabulary from a single CUE definition source.
func Parse(source []byte) (*vocab.Vocabulary, error) {
	return (&Loader{}).Parse(source)
}

// LoadFile builds a vocabulary from the CUE definition file at path.
func LoadFile(path string) (*vocab.Vocabulary, error) {
	return (&Loader{}).LoadFile(path)
}

// LoadDir builds a vocabulary from the CUE package in dir, unifying
// every file of the package into one definition.
func LoadDir(dir string) (*vocab.Vocabulary, error) {
	return (&Loader{}).LoadDir(dir)
}

// Parse builds a vocabulary from a single CUE definition source.
func (l *Loader) Parse(source []byte) (*vocab.Vocabulary, error) {
	return l.parse("vocabulary.cue", source)
}

// LoadFile builds a vocabulary from the CUE definition file at path.
func (l *Loader) LoadFile(path string) (*vocab.Vocabulary, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("definition file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading definition file: %v", err)}
	}
	return l.parse(path, data)
}

// LoadDir builds a vocabulary from the CUE package in dir, unifying
// every file of the package into one definition.
func (l *Loader) LoadDir(dir string) (*vocab.Vocabulary, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("definitions directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("accessing definitions directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeCompileFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeCompileFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeCompileFailed, err)
	}

	l.logger().Debug("loaded vocabulary package", "dir", dir, "files", len(files))
	return l.finish(value)
}

func (l *Loader) parse(filename string, source []byte) (*vocab.Vocabulary, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(source, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeCompileFailed, err)
	}
	return l.finish(value)
}

// finish unifies a compiled definition with the embedded schema,
// validates it to concreteness and extracts the vocabulary.
func (l *Loader) finish(value cue.Value) (*vocab.Vocabulary, error) {
	schema := value.Context().CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, cueError(ErrCodeGeneric, err)
	}

	unified := value.Unify(schema)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(ErrCodeInvalidSchema, err)
	}

	root := unified.LookupPath(cue.ParsePath("vocabulary"))
	if !root.Exists() {
		return nil, &LoadError{Code: ErrCodeMissingField, Message: "vocabulary is required"}
	}

	version, err := root.LookupPath(cue.ParsePath("version")).String()
	if err != nil {
		return nil, cueError(ErrCodeInvalidSchema, err)
	}

	tables := make(map[string][]string)
	iter, err := root.LookupPath(cue.ParsePath("tables")).Fields()
	if err != nil {
		return nil, cueError(ErrCodeInvalidSchema, err)
	}
	for iter.Next() {
		cols, err := stringList(iter.Value())
		if err != nil {
			return nil, err
		}
		tables[iter.Label()] = cols
	}

	// Identifier problems keep their own error type.
	voc, err := vocab.New(version, tables)
	if err != nil {
		return nil, err
	}

	l.logger().Debug("vocabulary definition loaded",
		"version", voc.Version(),
		"tables", len(voc.Tables()),
		"fingerprint", voc.Fingerprint(),
	)
	return voc, nil
}

func stringList(v cue.Value) ([]string, error) {
	list, err := v.List()
	if err != nil {
		return nil, cueError(ErrCodeInvalidSchema, err)
	}
	var out []string
	for list.Next() {
		s, err := list.Value().String()
		if err != nil {
			return nil, cueError(ErrCodeInvalidSchema, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// cueError extracts position info from CUE errors.
func cueError(code string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &LoadError{Code: code, Message: first.Error(), Pos: positions[0]}
	}
	return &LoadError{Code: code, Message: first.Error()}
}

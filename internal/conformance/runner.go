package conformance

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pricelens/selectir/ir"
	"github.com/pricelens/selectir/sqlgen"
	"github.com/pricelens/selectir/vocab"
)

// Runner drives scenarios through the decode-translate pipeline against
// one vocabulary.
type Runner struct {
	vocab  *vocab.Vocabulary
	logger *slog.Logger
}

// NewRunner returns a runner for the given vocabulary. A nil logger
// suppresses output.
func NewRunner(v *vocab.Vocabulary, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{vocab: v, logger: logger}
}

// Result captures the pipeline outcome for one scenario: rendered SQL
// on acceptance, or the rejecting error.
type Result struct {
	SQL string
	Err error
}

// Run feeds the scenario's document through decode and translate.
func (r *Runner) Run(s *Scenario) *Result {
	r.logger.Debug("running scenario", "name", s.Name)

	q, err := ir.DecodeQuery(r.vocab, []byte(s.Query))
	if err != nil {
		r.logger.Debug("document rejected", "name", s.Name, "err", err)
		return &Result{Err: err}
	}

	sql, err := sqlgen.Translate(q)
	if err != nil {
		r.logger.Debug("translation failed", "name", s.Name, "err", err)
		return &Result{Err: err}
	}

	r.logger.Debug("document translated", "name", s.Name, "sql", sql)
	return &Result{SQL: sql}
}

// Check verifies a result against the scenario's expectation. The SQL
// itself is left to the caller's golden comparison; Check covers the
// accept/reject split and the error class.
func (r *Runner) Check(s *Scenario, res *Result) error {
	if s.WantError != "" {
		if res.Err == nil {
			return fmt.Errorf("scenario %s: want %s error, got SQL %q", s.Name, s.WantError, res.SQL)
		}
		if !matchesClass(s.WantError, res.Err) {
			return fmt.Errorf("scenario %s: want %s error, got %v", s.Name, s.WantError, res.Err)
		}
		return nil
	}
	if res.Err != nil {
		return fmt.Errorf("scenario %s: unexpected rejection: %w", s.Name, res.Err)
	}
	return nil
}

func matchesClass(class string, err error) bool {
	switch class {
	case ErrorClassVocabulary:
		return vocab.IsVocabularyError(err)
	case ErrorClassShape:
		return ir.IsShapeError(err)
	case ErrorClassDepth:
		return ir.IsDepthViolation(err)
	default:
		return false
	}
}

package vocab

import "sync"

var (
	installMu sync.Mutex
	installed *Vocabulary
)

// Install registers v as the process-wide vocabulary. A process installs
// exactly one vocabulary; a second Install is rejected so two producers
// cannot disagree about which identifier sets are in force.
//
// The installed vocabulary is never mutated, so readers need no further
// coordination.
func Install(v *Vocabulary) error {
	if v == nil {
		return &VocabularyError{Code: ErrCodeEmptyVocabulary, Message: "cannot install a nil vocabulary"}
	}

	installMu.Lock()
	defer installMu.Unlock()

	if installed != nil {
		return &VocabularyError{Code: ErrCodeAlreadyInstalled, Message: "a vocabulary is already installed", Value: installed.version}
	}
	installed = v
	return nil
}

// Active returns the installed vocabulary.
func Active() (*Vocabulary, error) {
	installMu.Lock()
	defer installMu.Unlock()

	if installed == nil {
		return nil, &VocabularyError{Code: ErrCodeNotInstalled, Message: "no vocabulary installed"}
	}
	return installed, nil
}

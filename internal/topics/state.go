//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewDocuments = errors.New("topic modeling needs at least two non-empty documents")
	ErrNotFitted       = errors.New("no fitted topic model")
	ErrNoEmbeddings    = errors.New("word2vec produced no vectors")
	ErrBadTransition   = errors.New("illegal topic model transition")
)

// State - UNFIT -> FITTING -> FITTED -> REDUCING -> FITTED; anything can drop back to UNFIT
type State int

const (
	Unfit State = iota
	Fitting
	Fitted
	Reducing
)

func (s State) String() string {
	switch s {
	case Unfit:
		return "UNFIT"
	case Fitting:
		return "FITTING"
	case Fitted:
		return "FITTED"
	case Reducing:
		return "REDUCING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// transition - the only legal moves
func transition(from, to State) (State, error) {
	ok := false
	switch to {
	case Unfit:
		ok = true
	case Fitting:
		// a refit from FITTED is a fresh fit
		ok = from == Unfit || from == Fitted
	case Fitted:
		ok = from == Fitting || from == Reducing
	case Reducing:
		ok = from == Fitted
	}
	if !ok {
		return from, fmt.Errorf("%w: %s -> %s", ErrBadTransition, from, to)
	}
	return to, nil
}

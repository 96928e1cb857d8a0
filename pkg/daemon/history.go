package daemon

import (
	"errors"

	"github.com/charlie0129/meshlearn/pkg/meshstats"
	"github.com/charlie0129/meshlearn/pkg/variables"
)

// loadHistory reads a fresh snapshot of the mesh history from the variables
// store on every call. Replaced in tests.
var loadHistory = func() (meshstats.History, error) {
	vars, err := variables.NewFile(conf.VariablesFile()).Load()
	if err != nil {
		return nil, err
	}
	history, err := meshstats.HistoryFromVariables(vars)
	if errors.Is(err, meshstats.ErrNoHistory) {
		return meshstats.History{}, nil
	}
	return history, err
}

package cli

import (
	"vaultry/internal/apperr"
)

// handleErr converts an application error to the right output for the mode.
// In JSON mode it emits a structured error envelope using the error's stable
// code and returns nil so Cobra doesn't also print the error. In text mode it
// returns the error for Cobra to display.
func handleErr(err error) error {
	if err == nil {
		return nil
	}
	if jsonOutput {
		outputError(string(apperr.KindOf(err)), err.Error(), nil, "")
		return nil
	}
	return err
}

// handleErrSuggest is handleErr with a suggestion attached in JSON mode.
func handleErrSuggest(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	if jsonOutput {
		outputError(string(apperr.KindOf(err)), err.Error(), nil, suggestion)
		return nil
	}
	return err
}

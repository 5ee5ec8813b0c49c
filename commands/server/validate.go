package server

import (
	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/app"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/store"
	"github.com/spf13/cobra"
)

// ValidateCmd runs the application initializers against genesis files
// without touching the node database.
func ValidateCmd(ini tokenescrow.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Check that genesis files can initialize the application",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ValidateGenesis(ini, args)
		},
	}
}

// ValidateGenesis returns the first error found in given genesis files.
func ValidateGenesis(ini tokenescrow.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini tokenescrow.Initializer, genesisPath string) error {
	gen, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	if _, err := gen.ChainID(); err != nil {
		return err
	}
	opts, err := gen.AppState()
	if err != nil {
		return err
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(opts, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}

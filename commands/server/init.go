package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/tokenescrow/app"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/spf13/cobra"
	cfg "github.com/tendermint/tendermint/config"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

// GenOptions can parse command-line arguments to generate the app_state of
// the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will initialize all files for tendermint, along with proper
// app_state. The configuration is read when the command runs, so it can be
// filled by persistent flags of the root command.
func InitCmd(gen GenOptions, logger func() log.Logger, conf *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "init [args for app_state]",
		Short: "Initialize configuration and genesis files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return InitFiles(conf.Home, gen, logger(), args)
		},
	}
}

// InitFiles writes the tendermint configuration, a private validator key and
// a genesis file into the home directory. An existing genesis file keeps its
// chain id and validators, only its app_state is replaced.
func InitFiles(home string, gen GenOptions, logger log.Logger, args []string) error {
	config := cfg.DefaultConfig()
	config.SetRoot(home)
	cfg.EnsureRoot(home)

	if err := initTendermintFiles(config, logger); err != nil {
		return err
	}
	if gen == nil {
		return nil
	}
	state, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "app state")
	}
	return app.AddAppState(config.GenesisFile(), state)
}

func initTendermintFiles(config *cfg.Config, logger log.Logger) error {
	pv := privval.LoadOrGenFilePV(config.PrivValidatorKeyFile(), config.PrivValidatorStateFile())
	logger.Info("Private validator", "path", config.PrivValidatorKeyFile())

	genFile := config.GenesisFile()
	if cmn.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	pubKey := pv.GetPubKey()
	genDoc := tmtypes.GenesisDoc{
		ChainID:         fmt.Sprintf("escrow-chain-%v", cmn.RandStr(6)),
		GenesisTime:     tmtime.Now(),
		ConsensusParams: tmtypes.DefaultConsensusParams(),
		Validators: []tmtypes.GenesisValidator{{
			Address: pubKey.Address(),
			PubKey:  pubKey,
			Power:   10,
		}},
	}
	if err := os.MkdirAll(filepath.Dir(genFile), 0755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	logger.Info("Generated genesis file", "path", genFile)
	return nil
}

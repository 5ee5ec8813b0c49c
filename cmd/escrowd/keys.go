package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/tokenescrow/crypto"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/spf13/cobra"
)

func defaultKeyPath() string {
	return filepath.Join(os.ExpandEnv("$HOME"), ".escrowd", "key.priv")
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the signing key",
	}
	cmd.AddCommand(keysNewCmd(), keysShowCmd())
	return cmd
}

func keysNewCmd() *cobra.Command {
	var (
		keyPath string
		seedHex string
		hdPath  string
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Derive a new ed25519 key and store it in a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(keyPath); err == nil && !force {
				return errors.Wrapf(errors.ErrDuplicate, "key file %s exists", keyPath)
			}

			seed := make([]byte, 32)
			if seedHex != "" {
				raw, err := hex.DecodeString(seedHex)
				if err != nil {
					return errors.Wrap(errors.ErrInput, "seed must be hex encoded")
				}
				seed = raw
			} else if _, err := rand.Read(seed); err != nil {
				return errors.Wrap(errors.ErrInput, err.Error())
			}

			key, err := crypto.DeriveEd25519(seed, hdPath)
			if err != nil {
				return err
			}
			if err := writeKey(keyPath, key); err != nil {
				return err
			}
			if seedHex == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "seed:    %X\n", seed)
			}
			printKey(cmd, key)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", defaultKeyPath(), "file to write the private key to")
	cmd.Flags().StringVar(&seedHex, "seed", "", "hex encoded master seed, random when empty")
	cmd.Flags().StringVar(&hdPath, "path", crypto.DefaultHDPath, "hardened derivation path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key file")
	return cmd
}

func keysShowCmd() *cobra.Command {
	var keyPath string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the address of the stored key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readKey(keyPath)
			if err != nil {
				return err
			}
			printKey(cmd, key)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", defaultKeyPath(), "private key file")
	return cmd
}

func printKey(cmd *cobra.Command, key *crypto.PrivateKey) {
	addr := key.PublicKey().Address()
	fmt.Fprintf(cmd.OutOrStdout(), "address: %s\nbech32:  %s\n", addr, addr.Bech32())
}

// writeKey stores the private key hex encoded, readable by the owner only.
func writeKey(path string, key *crypto.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	raw := hex.EncodeToString(key.GetEd25519())
	if err := ioutil.WriteFile(path, []byte(raw), 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

func readKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrNotFound, err.Error())
	}
	bz, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "key file is not hex encoded")
	}
	if len(bz) != 64 {
		return nil, errors.Wrapf(errors.ErrInput, "key must be 64 bytes, got %d", len(bz))
	}
	return &crypto.PrivateKey{Ed25519: bz}, nil
}

package main

import (
	"fmt"

	"github.com/gogo/protobuf/jsonpb"
	"github.com/iov-one/tokenescrow"
	escrowd "github.com/iov-one/tokenescrow/cmd/escrowd/app"
	"github.com/iov-one/tokenescrow/cmd/escrowd/client"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/x/cash"
	"github.com/iov-one/tokenescrow/x/escrow"
	"github.com/spf13/cobra"
)

const defaultNode = "tcp://localhost:26657"

// txFlags are shared by all commands that submit a transaction.
type txFlags struct {
	node    string
	keyPath string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.node, "node", defaultNode, "tendermint RPC address")
	cmd.Flags().StringVar(&f.keyPath, "key", defaultKeyPath(), "private key file of the signer")
}

// submit signs msg with the key and waits until it is committed.
func (f *txFlags) submit(cmd *cobra.Command, msg tokenescrow.Msg) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	key, err := readKey(f.keyPath)
	if err != nil {
		return nil, err
	}
	c := client.NewHTTPClient(f.node)
	tx := escrowd.NewTx(msg)
	if err := c.SignTx(tx, key); err != nil {
		return nil, err
	}
	return c.BroadcastTx(tx)
}

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Sign and submit transactions",
	}
	cmd.AddCommand(
		txOpenCmd(),
		txAddressCmd("settle", "Pay for an escrow and receive its tokens", func(esc, acct tokenescrow.Address) tokenescrow.Msg {
			return &escrow.SettleMsg{Escrow: esc, BuyerAssetAccount: acct}
		}),
		txAddressCmd("cancel", "Cancel an open escrow and recover the tokens", func(esc, _ tokenescrow.Address) tokenescrow.Msg {
			return &escrow.CancelMsg{Escrow: esc}
		}),
		txAddressCmd("close", "Remove a settled escrow", func(esc, _ tokenescrow.Address) tokenescrow.Msg {
			return &escrow.CloseMsg{Escrow: esc}
		}),
		txSendCmd(),
	)
	return cmd
}

func txOpenCmd() *cobra.Command {
	var (
		flags              txFlags
		account, assetType string
		offered, requested uint64
	)
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Lock tokens in a new escrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := tokenescrow.ParseAddress(account)
			if err != nil {
				return errors.Wrap(err, "account")
			}
			asset, err := tokenescrow.ParseAddress(assetType)
			if err != nil {
				return errors.Wrap(err, "asset")
			}
			data, err := flags.submit(cmd, &escrow.OpenMsg{
				SellerAssetAccount: acct,
				AssetType:          asset,
				OfferedAmount:      offered,
				RequestedAmount:    requested,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "escrow: %s\n", tokenescrow.Address(data))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&account, "account", "", "token account the offered tokens are taken from")
	cmd.Flags().StringVar(&assetType, "asset", "", "mint address of the offered tokens")
	cmd.Flags().Uint64Var(&offered, "offer", 0, "amount of tokens offered")
	cmd.Flags().Uint64Var(&requested, "request", 0, "amount of coins requested")
	return cmd
}

// txAddressCmd builds a command for the messages that refer to an existing
// escrow.
func txAddressCmd(use, short string, build func(esc, acct tokenescrow.Address) tokenescrow.Msg) *cobra.Command {
	var (
		flags        txFlags
		escrowAddr   string
		buyerAccount string
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			esc, err := tokenescrow.ParseAddress(escrowAddr)
			if err != nil {
				return errors.Wrap(err, "escrow")
			}
			var acct tokenescrow.Address
			if buyerAccount != "" {
				if acct, err = tokenescrow.ParseAddress(buyerAccount); err != nil {
					return errors.Wrap(err, "account")
				}
			}
			if _, err := flags.submit(cmd, build(esc, acct)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", use, esc)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&escrowAddr, "escrow", "", "escrow address")
	if use == "settle" {
		cmd.Flags().StringVar(&buyerAccount, "account", "", "token account receiving the tokens")
	}
	return cmd
}

func txSendCmd() *cobra.Command {
	var (
		flags  txFlags
		dest   string
		amount uint64
		memo   string
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Transfer coins to another address",
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := tokenescrow.ParseAddress(dest)
			if err != nil {
				return errors.Wrap(err, "destination")
			}
			_, err = flags.submit(cmd, &cash.SendMsg{Destination: to, Amount: amount, Memo: memo})
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&dest, "to", "", "destination address")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount of coins")
	cmd.Flags().StringVar(&memo, "memo", "", "optional note")
	return cmd
}

func queryCmd() *cobra.Command {
	var (
		node   string
		seller string
		list   bool
	)
	cmd := &cobra.Command{
		Use:   "query [escrow address]",
		Short: "Print an escrow as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewHTTPClient(node)
			m := jsonpb.Marshaler{Indent: "  "}
			if list {
				entries, err := c.ListEscrows(escrow.StatusOpen)
				if err != nil {
					return err
				}
				for _, en := range entries {
					out, err := m.MarshalToString(en.Escrow)
					if err != nil {
						return errors.Wrap(errors.ErrModel, err.Error())
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", en.Address, out)
				}
				return nil
			}
			var (
				e   *escrow.Escrow
				err error
			)
			switch {
			case len(args) == 1:
				addr, perr := tokenescrow.ParseAddress(args[0])
				if perr != nil {
					return perr
				}
				e, err = c.GetEscrow(addr)
			case seller != "":
				addr, perr := tokenescrow.ParseAddress(seller)
				if perr != nil {
					return perr
				}
				e, err = c.GetEscrowBySeller(addr)
			default:
				return errors.Wrap(errors.ErrInput, "escrow address or --seller required")
			}
			if err != nil {
				return err
			}
			out, err := m.MarshalToString(e)
			if err != nil {
				return errors.Wrap(errors.ErrModel, err.Error())
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&node, "node", defaultNode, "tendermint RPC address")
	cmd.Flags().StringVar(&seller, "seller", "", "look the escrow up by seller address")
	cmd.Flags().BoolVar(&list, "open", false, "list all open escrows")
	return cmd
}

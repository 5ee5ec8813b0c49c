/*
Package tokenescrow defines the interfaces used throughout the escrow chain,
such as storage, transactions and handlers.

It also contains the helpers to work with conditions and addresses,
including addresses derived from seeds that no private key controls, the
context, and the abci response conversion.
*/
package tokenescrow

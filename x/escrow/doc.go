/*
Package escrow implements a two party atomic swap.

A seller locks an amount of a token in a vault and names the price in the
native currency. Any buyer can settle the escrow by paying that price and
receives the locked tokens in the same transaction. Until that happens the
seller can cancel the escrow and get the tokens back.

Both the escrow record and the vault live at addresses derived from the
seller address, so a seller can have only one escrow at a time. The vault
is a token account owned by its own address. No private key exists for a
derived address, so only this package can release the vault funds, and it
does so only when settling or cancelling.

A settled escrow is kept until the seller closes it. Closing removes the
empty vault, refunds the record deposit and frees the seller address for a
new escrow.
*/
package escrow

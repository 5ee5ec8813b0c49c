/*
Package cash defines the native settlement currency of the chain: a single
balance per address that can be moved between wallets.

There is no logic in the currency, except that the balance of any wallet
may not go below zero. Thus, this implementation is referred to as cash.
Escrow payments are made with it.
*/
package cash

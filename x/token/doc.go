/*
Package token implements fungible assets that are held in explicitly created
accounts.

Every asset is identified by the address of its mint. An account holds the
balance of exactly one mint and belongs to exactly one owner. Only the owner
can move tokens out of the account, and only to another account of the same
mint. An account must be created before it can receive tokens and can be
closed once it is empty.

Accounts can be owned by an address that no key can sign for. Such accounts
are moved only by the extension able to present the owning condition.
*/
package token

/*
Package x contains the extensions of the escrow chain.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together in the app package. This package
itself only holds the authentication helpers shared by all of them.

Note that protobuf types in exported code will be prefixed by
the package, so follow standard go naming conventions and avoid
stutter. Use eg. `escrow.OpenMsg` in place of `escrow.OpenEscrowMsg`.
*/
package x

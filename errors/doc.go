/*
Package errors implements the error values used across tokenescrow.

Every error returned to a client must wrap one of the registered root errors.
Root errors carry an ABCI code so that clients can distinguish failures (for
example an escrow that is already completed from a missing one) without
parsing messages.

Declare package specific root errors with Register(code, description) during
program startup. Add context with Wrap or Wrapf and test for a kind with
ErrXyz.Is(err). The innermost Wrap attaches a stack trace, visible with %+v.
*/
package errors

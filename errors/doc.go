/*
Package errors implements custom error interfaces for the swap ledger.

Reuse as many errors from this package as possible and define custom package
errors only when absolutely necessary. Escrow declares its business errors
in x/escrow, token declares ErrDecimals in x/token.

If you want to register a custom error, use Register(code, description).
Wrap root errors with Wrap/Wrapf to add context. Code stands for ABCI error
code, which allows to distinguish types of errors on the client side and act
accordingly.

Wrap attaches a stacktrace at the lowest frame it is called from. Use
`fmt.Printf/Sprintf` to get more context for the error
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors

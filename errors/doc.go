/*
Package errors implements the coded error values used across the vault
codebase.

The idea is to reuse as many root errors from this package as possible and
define custom package roots only when absolutely necessary. If an error is
going to be somewhat package-agnostic, it is best declared here.

To register a custom root error use Register(code, description). Each
package claims its own small code range (see the package errors.go files
under x/) so a code identifies both the error class and where it came from.

There is also support for stack traces. Ensure a custom error is created
using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of origin
so a stack trace is attached. Wrapping multiple times keeps only the first
(deepest) stack trace.

Once you have an error, use fmt verbs to render the context:
	%s is just the error message
	%+v is the full stack trace
*/
package errors

package errors

import (
	"fmt"
	"io"
)

// Format implements fmt.Formatter so that %+v prints the message together
// with the stack trace recorded at the error origin, while %v and %s print
// only the plain message chain.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			io.WriteString(s, e.Error())
			if st := stackTrace(e.parent); st != nil {
				st.Format(s, verb)
			}
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

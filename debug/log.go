package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/signadot/tony-include/ir"
)

var out io.Writer = os.Stderr

// SetOutput redirects debug output, returning the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// Logf writes a debug message. *ir.Node arguments are rendered with Flow and
// maps or slices as indented JSON, so both take the %v verb.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case *ir.Node:
			args[i] = x.Flow()
		}
	}
	fmt.Fprintf(out, msg, args...)
}

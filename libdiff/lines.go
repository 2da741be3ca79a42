package libdiff

import (
	"io"
	"strings"

	"github.com/fatih/color"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

func (op Op) prefix() string {
	switch op {
	case Delete:
		return "-"
	case Insert:
		return "+"
	}
	return " "
}

// Hunk is a run of lines sharing one operation.
type Hunk struct {
	Op    Op
	Lines []string
}

// Lines diffs from and to line by line.
func Lines(from, to string) []Hunk {
	diffCfg := diffpatch.New()
	a, b, lines := diffCfg.DiffLinesToChars(from, to)
	diffs := diffCfg.DiffMain(a, b, false)
	diffs = diffCfg.DiffCharsToLines(diffs, lines)
	res := make([]Hunk, 0, len(diffs))
	for i := range diffs {
		diff := &diffs[i]
		if diff.Text == "" {
			continue
		}
		h := Hunk{Lines: strings.Split(strings.TrimSuffix(diff.Text, "\n"), "\n")}
		switch diff.Type {
		case diffpatch.DiffDelete:
			h.Op = Delete
		case diffpatch.DiffInsert:
			h.Op = Insert
		}
		res = append(res, h)
	}
	return res
}

// Differs reports whether hunks has any line not in both inputs.
func Differs(hunks []Hunk) bool {
	for _, h := range hunks {
		if h.Op != Equal {
			return true
		}
	}
	return false
}

// Write prints hunks with one marker column per line. With colors, deleted
// lines are red and inserted lines green.
func Write(w io.Writer, hunks []Hunk, colors bool) error {
	del, ins := color.New(color.FgRed), color.New(color.FgGreen)
	if colors {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}
	for _, h := range hunks {
		for _, ln := range h.Lines {
			var err error
			switch h.Op {
			case Delete:
				_, err = del.Fprintln(w, h.Op.prefix()+ln)
			case Insert:
				_, err = ins.Fprintln(w, h.Op.prefix()+ln)
			default:
				_, err = io.WriteString(w, h.Op.prefix()+ln+"\n")
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

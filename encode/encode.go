package encode

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/format"
	"github.com/signadot/tony-include/ir"
)

type EncState struct {
	indent   int
	depth    int
	comments bool
	origins  bool
	format   format.Format

	buf    bytes.Buffer
	inline bool

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes the tree reachable from n to w.
func Encode(n doc.Node, w io.Writer, opts ...EncodeOption) error {
	y, err := Build(n, opts...)
	if err != nil {
		return err
	}
	return EncodeIR(y, w, opts...)
}

// EncodeIR writes node to w.
func EncodeIR(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := newState(opts)
	if es.format.IsJSON() {
		if err := es.json(node, 0); err != nil {
			return err
		}
		es.buf.WriteByte('\n')
	} else {
		es.yamlDoc(node)
	}
	_, err := w.Write(es.buf.Bytes())
	return err
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

func (es *EncState) writeComments() bool {
	return es.comments || es.origins
}

// start positions the cursor for a new entry at indent unless it already
// sits after a sequence dash.
func (es *EncState) start(indent int) {
	if es.inline {
		es.inline = false
		return
	}
	es.buf.WriteString(strings.Repeat(" ", indent))
}

func (es *EncState) headComment(c *ir.Node, indent int) {
	if c == nil || !es.writeComments() {
		return
	}
	for _, ln := range c.Lines {
		es.start(indent)
		es.buf.WriteString(es.color(ir.CommentType, CommentColor, "# "+ln))
		es.buf.WriteByte('\n')
	}
}

func (es *EncState) yamlDoc(y *ir.Node) {
	es.headComment(y.Comment, 0)
	if !y.Type.IsContainer() || len(y.Values) == 0 {
		if y.Tag != "" {
			es.buf.WriteString(es.color(y.Type, TagColor, y.Tag))
			es.buf.WriteByte(' ')
		}
		es.buf.WriteString(es.yamlLeaf(y))
		es.buf.WriteByte('\n')
		return
	}
	if y.Tag != "" {
		es.buf.WriteString(es.color(y.Type, TagColor, y.Tag))
		es.buf.WriteByte('\n')
	}
	es.yamlEntries(y, 0)
}

func (es *EncState) yamlEntries(y *ir.Node, indent int) {
	for i, v := range y.Values {
		es.headComment(v.Comment, indent)
		es.start(indent)
		if y.Type == ir.ObjectType {
			key := y.Fields[i].String
			if NeedsQuote(key) {
				key = Quote(key)
			}
			es.buf.WriteString(es.color(ir.ObjectType, FieldColor, key))
			es.buf.WriteString(es.color(ir.ObjectType, SepColor, ":"))
		} else {
			es.buf.WriteString(es.color(ir.ArrayType, SepColor, "-"))
		}
		es.yamlValue(v, indent, y.Type == ir.ArrayType)
	}
}

// yamlValue writes v after a "key:" or "-" prefix.
func (es *EncState) yamlValue(v *ir.Node, indent int, inSeq bool) {
	if v.Tag != "" {
		es.buf.WriteByte(' ')
		es.buf.WriteString(es.color(v.Type, TagColor, v.Tag))
	}
	if !v.Type.IsContainer() || len(v.Values) == 0 {
		es.buf.WriteByte(' ')
		es.buf.WriteString(es.yamlLeaf(v))
		es.buf.WriteByte('\n')
		return
	}
	if inSeq && v.Tag == "" {
		es.buf.WriteByte(' ')
		es.inline = true
	} else {
		es.buf.WriteByte('\n')
	}
	es.yamlEntries(v, indent+es.indent)
}

func (es *EncState) yamlLeaf(y *ir.Node) string {
	var s string
	switch y.Type {
	case ir.ObjectType:
		s = "{}"
	case ir.ArrayType:
		s = "[]"
	case ir.StringType:
		s = y.String
		if NeedsQuote(s) {
			s = Quote(s)
		}
	case ir.NumberType:
		s = y.Scalar()
		if f := y.Float64; f != nil {
			switch {
			case math.IsNaN(*f):
				s = ".nan"
			case math.IsInf(*f, 1):
				s = ".inf"
			case math.IsInf(*f, -1):
				s = "-.inf"
			}
		}
	default:
		s = y.Scalar()
	}
	return es.color(y.Type, ValueColor, s)
}

func (es *EncState) json(y *ir.Node, indent int) error {
	if y.Tag != "" {
		return fmt.Errorf("%w: cannot encode tag %s in %s", ErrEncoding, y.Tag, es.format)
	}
	switch y.Type {
	case ir.ObjectType, ir.ArrayType:
		lb, rb := "[", "]"
		if y.Type == ir.ObjectType {
			lb, rb = "{", "}"
		}
		es.buf.WriteString(es.color(y.Type, SepColor, lb))
		if len(y.Values) == 0 {
			es.buf.WriteString(es.color(y.Type, SepColor, rb))
			return nil
		}
		es.buf.WriteByte('\n')
		ind := strings.Repeat(" ", indent+es.indent)
		for i, v := range y.Values {
			es.buf.WriteString(ind)
			if y.Type == ir.ObjectType {
				es.buf.WriteString(es.color(ir.ObjectType, FieldColor, Quote(y.Fields[i].String)))
				es.buf.WriteString(es.color(ir.ObjectType, SepColor, ":"))
				es.buf.WriteByte(' ')
			}
			if err := es.json(v, indent+es.indent); err != nil {
				return err
			}
			if i < len(y.Values)-1 {
				es.buf.WriteString(es.color(y.Type, SepColor, ","))
			}
			es.buf.WriteByte('\n')
		}
		es.buf.WriteString(strings.Repeat(" ", indent))
		es.buf.WriteString(es.color(y.Type, SepColor, rb))
		return nil
	case ir.StringType:
		es.buf.WriteString(es.color(ir.StringType, ValueColor, Quote(y.String)))
	case ir.NumberType:
		if f := y.Float64; f != nil && (math.IsNaN(*f) || math.IsInf(*f, 0)) {
			return fmt.Errorf("%w: %s is not a json number", ErrEncoding, y.Scalar())
		}
		es.buf.WriteString(es.color(ir.NumberType, ValueColor, y.Scalar()))
	case ir.BoolType, ir.NullType:
		es.buf.WriteString(es.color(y.Type, ValueColor, y.Scalar()))
	default:
		return fmt.Errorf("%w: %s node in %s", ErrEncoding, y.Type, es.format)
	}
	return nil
}

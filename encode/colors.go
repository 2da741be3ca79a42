package encode

import (
	"strings"

	"github.com/fatih/color"

	"github.com/signadot/tony-include/ir"
)

// ColorAttr is the syntactic role of a piece of encoded text.
type ColorAttr int

const (
	CommentColor ColorAttr = iota
	TagColor
	FieldColor
	ValueColor
	SepColor
)

// Colorable keys a color by node type and role.
type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type colorFunc = func(string, ...any) string

// Colors maps roles to coloring functions. Roles without an entry use
// Default.
type Colors struct {
	Default colorFunc
	Map     map[Colorable]colorFunc
}

var (
	tagRGB    = [3]int{74, 92, 138}
	sepRGB    = [3]int{255, 0, 196}
	fieldRGB  = [3]int{128, 168, 196}
	colonRGB  = [3]int{196, 128, 128}
	numberRGB = [3]int{128, 216, 236}
	nullRGB   = [3]int{168, 0, 196}
	stringRGB = [3]int{8, 196, 16}
)

func rgb(c [3]int) colorFunc {
	return color.RGB(c[0], c[1], c[2]).SprintfFunc()
}

// NewColors returns the terminal palette used by tinc.
func NewColors() *Colors {
	m := map[Colorable]colorFunc{}
	for _, t := range ir.Types() {
		m[Colorable{t, TagColor}] = rgb(tagRGB)
		m[Colorable{t, CommentColor}] = color.BlueString
		m[Colorable{t, SepColor}] = rgb(sepRGB)
	}
	for k, f := range map[Colorable]colorFunc{
		{ir.CommentType, ValueColor}: color.BlueString,
		{ir.NumberType, ValueColor}:  rgb(numberRGB),
		{ir.NullType, ValueColor}:    rgb(nullRGB),
		{ir.BoolType, ValueColor}:    color.CyanString,
		{ir.StringType, ValueColor}:  rgb(stringRGB),
		{ir.ObjectType, FieldColor}:  rgb(fieldRGB),
		{ir.ObjectType, SepColor}:    rgb(colonRGB),
	} {
		m[k] = f
	}
	// the encoded text is the format, not an argument
	for k, f := range m {
		m[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return &Colors{Default: plain, Map: m}
}

func plain(v string, _ ...any) string { return v }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.Type, a ColorAttr) colorFunc {
	if f, ok := c.Map[Colorable{t, a}]; ok && f != nil {
		return f
	}
	return c.Default
}

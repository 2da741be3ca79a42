package kpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("kpath syntax error")

// KPath is a linked list of path segments. Exactly one of Field and Index is
// set on each segment.
type KPath struct {
	Field *string // Object field name
	Index *int    // Array index
	Next  *KPath  // Next segment, nil at the leaf
}

func Field(name string) *KPath {
	return &KPath{Field: &name}
}

func Index(i int) *KPath {
	return &KPath{Index: &i}
}

// String returns the canonical kinded path string.
func (p *KPath) String() string {
	var b strings.Builder
	for x := p; x != nil; x = x.Next {
		if x.Field != nil && b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(x.SegmentString())
	}
	return b.String()
}

// SegmentString returns the string representation of this single segment.
//   - KPath{Field: &"a"} → "a"
//   - KPath{Field: &"field name"} → "'field name'"
//   - KPath{Index: &0} → "[0]"
func (p *KPath) SegmentString() string {
	if p == nil {
		return ""
	}
	if p.Field != nil {
		return QuoteField(*p.Field)
	}
	if p.Index != nil {
		return "[" + strconv.Itoa(*p.Index) + "]"
	}
	return ""
}

// NeedsQuote reports whether a field must be quoted in a kinded path.
func NeedsQuote(f string) bool {
	return f == "" || strings.ContainsAny(f, ".[]{}'\"\\ \t\n*")
}

func QuoteField(f string) string {
	if !NeedsQuote(f) {
		return f
	}
	var b strings.Builder
	b.WriteByte('\'')
	// bytes, not runes: fields need not be valid UTF-8
	for i := 0; i < len(f); i++ {
		if c := f[i]; c == '\'' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(f[i])
	}
	b.WriteByte('\'')
	return b.String()
}

// Parse parses a kinded path string. The empty path is the root and yields
// nil.
//
// Examples:
//   - "a.b.c" → 3 field segments
//   - "a[0][1]" → field then 2 index segments
//   - "[2].'x y'" → index then quoted field
func Parse(kp string) (*KPath, error) {
	if kp == "" {
		return nil, nil
	}
	var (
		head, tail *KPath
		i          int
	)
	add := func(seg *KPath) {
		if head == nil {
			head = seg
		} else {
			tail.Next = seg
		}
		tail = seg
	}
	for i < len(kp) {
		switch c := kp[i]; {
		case c == '[':
			j := strings.IndexByte(kp[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("%w: unterminated index at %d in %q", ErrSyntax, i, kp)
			}
			n, err := strconv.Atoi(kp[i+1 : i+j])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrSyntax, kp[i+1:i+j], kp)
			}
			add(Index(n))
			i += j + 1
		case c == '.' || head == nil:
			if c == '.' {
				if head == nil {
					return nil, fmt.Errorf("%w: leading '.' in %q", ErrSyntax, kp)
				}
				i++
			}
			f, n, err := parseField(kp[i:])
			if err != nil {
				return nil, fmt.Errorf("%w in %q", err, kp)
			}
			add(Field(f))
			i += n
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d in %q", ErrSyntax, c, i, kp)
		}
	}
	return head, nil
}

// parseField reads one field segment from the start of s, returning the field
// and the number of bytes consumed.
func parseField(s string) (string, int, error) {
	if s == "" {
		return "", 0, fmt.Errorf("%w: empty field", ErrSyntax)
	}
	if s[0] != '\'' {
		n := strings.IndexAny(s, ".[")
		if n < 0 {
			n = len(s)
		}
		if n == 0 {
			return "", 0, fmt.Errorf("%w: empty field", ErrSyntax)
		}
		return s[:n], n, nil
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 == len(s) {
				return "", 0, fmt.Errorf("%w: dangling escape", ErrSyntax)
			}
			i++
			b.WriteByte(s[i])
		case '\'':
			return b.String(), i + 1, nil
		default:
			b.WriteByte(s[i])
		}
	}
	return "", 0, fmt.Errorf("%w: unterminated quote", ErrSyntax)
}

// MustParse is like Parse but panics on error.
func MustParse(kp string) *KPath {
	p, err := Parse(kp)
	if err != nil {
		panic(err)
	}
	return p
}

// Segments returns copies of the segments of p, each with a nil Next.
func (p *KPath) Segments() []*KPath {
	var res []*KPath
	for x := p; x != nil; x = x.Next {
		seg := *x
		seg.Next = nil
		res = append(res, &seg)
	}
	return res
}

// Append returns a new path consisting of p followed by q. Neither p nor q is
// modified.
func (p *KPath) Append(q *KPath) *KPath {
	var head, tail *KPath
	for _, seg := range append(p.Segments(), q.Segments()...) {
		if head == nil {
			head = seg
		} else {
			tail.Next = seg
		}
		tail = seg
	}
	return head
}

package encode

import "github.com/signadot/tony-include/format"

// DefaultDepth bounds the nesting Build follows unless Depth says otherwise.
// Include cycles spanning several documents are cut off by it.
const DefaultDepth = 256

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// Depth sets the deepest nesting level Build follows; 0 means no limit.
func Depth(n int) EncodeOption {
	return func(es *EncState) { es.depth = n }
}

func EncodeComments(v bool) EncodeOption {
	return func(es *EncState) { es.comments = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}

// EncodeOrigins annotates included content with a "from <doc>#<path>"
// comment naming where it lives.
func EncodeOrigins(v bool) EncodeOption {
	return func(es *EncState) { es.origins = v }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	return newState(opts).format
}

func newState(opts []EncodeOption) *EncState {
	es := &EncState{indent: 2, depth: DefaultDepth}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// ColorsFromOpts reports whether encode options turn on colors.
func ColorsFromOpts(opts ...EncodeOption) bool {
	return newState(opts).Color != nil
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/signadot/tony-include/anchor"
	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/encode"
	"github.com/signadot/tony-include/ir"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	e, ok := s.elementAt(params.TextDocument.URI, params.Position)
	if !ok {
		return nil, nil
	}
	y, err := e.IR()
	if err != nil {
		return nil, nil
	}
	var text string
	if doc.IsIncludeSite(y) {
		text = s.includeHover(e)
	} else {
		text = buildHoverText(e, y)
	}
	if text == "" {
		return nil, nil
	}
	r := pointRange(e)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: text,
		},
		Range: &r,
	}, nil
}

// includeHover shows what an include site expands to, or why it does not.
func (s *Server) includeHover(site doc.Element) string {
	var included doc.Node
	_, err := s.ws.Expander().Expand(site, func(n doc.Node) bool {
		included = n
		return false
	})
	if err != nil {
		return fmt.Sprintf("**Broken include:** %s", err)
	}
	if included == nil {
		return ""
	}
	target, err := anchor.Unwrap(included)
	if err != nil {
		return fmt.Sprintf("**Broken include:** %s", err)
	}
	var buf bytes.Buffer
	if err := encode.Encode(included, &buf); err != nil {
		return fmt.Sprintf("**Includes** `%s`\n\n%s", target, err)
	}
	return fmt.Sprintf("**Includes** `%s`\n\n```yaml\n%s```", target, buf.String())
}

func buildHoverText(e doc.Element, y *ir.Node) string {
	parts := []string{fmt.Sprintf("**Kind:** %s", e.Kind())}
	if p := e.KPath(); p != "" {
		parts = append(parts, fmt.Sprintf("**Path:** `%s`", p))
	}
	parts = append(parts, fmt.Sprintf("**Type:** %s", typeInfo(y)))
	if y.Tag != "" {
		parts = append(parts, fmt.Sprintf("**Tag:** `%s`", y.Tag))
	}
	if v := valueInfo(y); v != "" {
		parts = append(parts, fmt.Sprintf("**Value:** %s", v))
	}
	return strings.Join(parts, "\n\n")
}

func typeInfo(y *ir.Node) string {
	if y.Type == ir.NumberType {
		if y.Int64 != nil {
			return "integer"
		}
		return "float"
	}
	return strings.ToLower(y.Type.String())
}

func valueInfo(y *ir.Node) string {
	switch y.Type {
	case ir.ArrayType:
		return fmt.Sprintf("array with %d elements", len(y.Values))
	case ir.ObjectType:
		return fmt.Sprintf("object with %d keys", len(y.Fields))
	case ir.StringType:
		val := y.String
		if len(val) > 50 {
			val = val[:50] + "..."
		}
		return fmt.Sprintf("`%s`", val)
	}
	return fmt.Sprintf("`%s`", y.Scalar())
}

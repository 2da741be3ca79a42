// Package encode renders document trees as YAML or JSON.
//
// Encode walks a doc.Node through ProcessChildren, so a tree holding include
// proxies renders as the virtual tree: included content appears in place of
// the include sites. Build returns that virtual tree as a detached ir.Node.
//
//	var buf bytes.Buffer
//	err := encode.Encode(root, &buf, encode.EncodeOrigins(true))
//
//	// plain trees
//	err = encode.EncodeIR(node, os.Stdout, encode.EncodeFormat(format.JSONFormat))
package encode

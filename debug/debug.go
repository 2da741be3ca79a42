package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Anchor  bool
	Include bool
	Doc     bool
	Parse   bool
	LSP     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Anchor = boolEnv("TINC_DEBUG_ANCHOR")
	d.Include = boolEnv("TINC_DEBUG_INCLUDE")
	d.Doc = boolEnv("TINC_DEBUG_DOC")
	d.Parse = boolEnv("TINC_DEBUG_PARSE")
	d.LSP = boolEnv("TINC_DEBUG_LSP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Anchor() bool {
	return d.Anchor
}
func Include() bool {
	return d.Include
}
func Doc() bool {
	return d.Doc
}
func Parse() bool {
	return d.Parse
}
func LSP() bool {
	return d.LSP
}

package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/encode"
	"github.com/signadot/tony-include/ir"
	"github.com/signadot/tony-include/libdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: diff requires 1 arg, got %v", cli.ErrUsage, args)
	}
	ws, err := cfg.workspace(true)
	if err != nil {
		return err
	}
	differs, err := diffDoc(cc.Out, ws, args[0], cfg.encOpts(cc.Out)...)
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// diffDoc writes the line diff between document id as written and as
// expanded by the workspace expander. Colors in opts color the diff markers
// instead of the documents.
func diffDoc(w io.Writer, ws *doc.Workspace, id string, opts ...encode.EncodeOption) (bool, error) {
	d, ok := ws.Lookup(doc.ID(id))
	if !ok {
		return false, fmt.Errorf("%w: %s", doc.ErrNotFound, id)
	}
	root, err := d.Root()
	if err != nil {
		return false, err
	}
	colors := encode.ColorsFromOpts(opts...)
	opts = append(opts, encode.EncodeColors(nil))

	x := ws.Expander()
	ws.SetExpander(nil)
	physical, perr := encode.Build(root, opts...)
	ws.SetExpander(x)
	if perr != nil {
		return false, perr
	}
	virtual, err := encode.Build(root, opts...)
	if err != nil {
		return false, err
	}
	if ir.Compare(physical, virtual) == 0 && physical.Hash() == virtual.Hash() {
		return false, nil
	}
	from, err := encodeString(physical, opts)
	if err != nil {
		return false, err
	}
	to, err := encodeString(virtual, opts)
	if err != nil {
		return false, err
	}
	hunks := libdiff.Lines(from, to)
	if !libdiff.Differs(hunks) {
		return false, nil
	}
	return true, libdiff.Write(w, hunks, colors)
}

func encodeString(y *ir.Node, opts []encode.EncodeOption) (string, error) {
	var buf bytes.Buffer
	if err := encode.EncodeIR(y, &buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

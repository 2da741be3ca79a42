package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tony-include/anchor"
	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/ir/kpath"
)

func nav(cfg *NavConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Nav.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: nav requires 2 args, got %v", cli.ErrUsage, args)
	}
	ws, err := cfg.workspace(true)
	if err != nil {
		return err
	}
	return navTo(cc.Out, ws, args[0], args[1])
}

// navTo prints where the node at path p of the expanded document id lives.
func navTo(w io.Writer, ws *doc.Workspace, id, p string) error {
	d, ok := ws.Lookup(doc.ID(id))
	if !ok {
		return fmt.Errorf("%w: %s", doc.ErrNotFound, id)
	}
	kp, err := kpath.Parse(p)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	s, err := descend(d, kp)
	if err != nil {
		return err
	}
	target, err := anchor.Unwrap(s.node)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s#%s -> %s\n", id, s.path, target)
	return err
}

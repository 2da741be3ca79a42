package main

import (
	"fmt"
	"io"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/scott-cotton/cli"

	"github.com/signadot/tony-include/anchor"
	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/include"
)

// maxNesting bounds walks through include sites which refer to each other
// across documents.
const maxNesting = 256

// Env is the environment a find expression is evaluated in.
type Env struct {
	Doc      string `expr:"doc"`
	Path     string `expr:"path"`
	Name     string `expr:"name"`
	Kind     string `expr:"kind"`
	Type     string `expr:"type"`
	Tag      string `expr:"tag"`
	Value    any    `expr:"value"` // nil unless a scalar
	Included bool   `expr:"included"`
	Origin   string `expr:"origin"`
}

func find(cfg *FindConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Find.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Where == "" {
		return fmt.Errorf("%w: find requires -where", cli.ErrUsage)
	}
	ws, err := cfg.workspace(true)
	if err != nil {
		return err
	}
	return findNodes(cc.Out, ws, cfg.Where, args)
}

func compileWhere(src string) (*vm.Program, error) {
	prg, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return prg, nil
}

// findNodes prints the nodes of the expanded documents ids for which the
// expression where holds, one per line with the place they live.
func findNodes(w io.Writer, ws *doc.Workspace, where string, ids []string) error {
	prg, err := compileWhere(where)
	if err != nil {
		return err
	}
	docs, err := selectDocs(ws, ids)
	if err != nil {
		return err
	}
	for _, d := range docs {
		root, err := d.Root()
		if err != nil {
			return err
		}
		err = walk(step{node: root}, 0, maxNesting, func(s step) error {
			env, err := nodeEnv(d, s)
			if err != nil {
				return err
			}
			res, err := expr.Run(prg, *env)
			if err != nil {
				return fmt.Errorf("evaluating at %s#%s: %w", d.ID(), s.path, err)
			}
			if ok, _ := res.(bool); !ok {
				return nil
			}
			if env.Included {
				_, err = fmt.Fprintf(w, "%s#%s (%s)\n", d.ID(), s.path, env.Origin)
			} else {
				_, err = fmt.Fprintf(w, "%s#%s\n", d.ID(), s.path)
			}
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func nodeEnv(d *doc.Document, s step) (*Env, error) {
	y, err := s.node.IR()
	if err != nil {
		return nil, err
	}
	env := &Env{
		Doc:  string(d.ID()),
		Path: s.path,
		Name: s.name,
		Kind: s.node.Kind().String(),
		Type: y.Type.String(),
		Tag:  y.Tag,
	}
	if y.Type.IsLeaf() {
		env.Value = y.ToAny()
	}
	if _, ok := s.node.(*include.Proxy); ok {
		e, err := anchor.Unwrap(s.node)
		if err != nil {
			return nil, err
		}
		env.Included = true
		env.Origin = e.String()
	}
	return env, nil
}

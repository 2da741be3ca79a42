package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/encode"
	"github.com/signadot/tony-include/parse"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	ws, err := cfg.workspace(cfg.Virtual, parse.ParseComments(cfg.Comments))
	if err != nil {
		return err
	}
	return viewDocs(cfg, cc.Out, ws, args)
}

// viewDocs encodes the documents named by ids, or every document of ws
// when ids is empty, separated by YAML document markers.
func viewDocs(cfg *ViewConfig, w io.Writer, ws *doc.Workspace, ids []string) error {
	docs, err := selectDocs(ws, ids)
	if err != nil {
		return err
	}
	opts := cfg.encOpts(w)
	if cfg.Comments {
		opts = append(opts, encode.EncodeComments(true))
	}
	if cfg.Origins {
		opts = append(opts, encode.EncodeOrigins(true))
	}
	headers := len(docs) > 1 && !encode.FormatFromOpts(opts...).IsJSON()
	for i, d := range docs {
		root, err := d.Root()
		if err != nil {
			return err
		}
		if headers {
			fmt.Fprintf(w, "# %s\n", d.ID())
		}
		if err := encode.Encode(root, w, opts...); err != nil {
			return fmt.Errorf("error encoding %s: %w", d.ID(), err)
		}
		if i < len(docs)-1 {
			if _, err := w.Write([]byte("---\n")); err != nil {
				return fmt.Errorf("error writing document %s: %w", d.ID(), err)
			}
		}
	}
	return nil
}

func selectDocs(ws *doc.Workspace, ids []string) ([]*doc.Document, error) {
	if len(ids) == 0 {
		return ws.Documents(), nil
	}
	res := make([]*doc.Document, 0, len(ids))
	for _, id := range ids {
		d, ok := ws.Lookup(doc.ID(id))
		if !ok {
			return nil, fmt.Errorf("%w: %s", doc.ErrNotFound, id)
		}
		res = append(res, d)
	}
	return res, nil
}

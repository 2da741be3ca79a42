package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/encode"
	"github.com/signadot/tony-include/format"
	"github.com/signadot/tony-include/include"
	"github.com/signadot/tony-include/parse"
)

const defaultGlob = "**/*.{yaml,yml,json}"

type MainConfig struct {
	Color bool   `cli:"name=color desc='encode with color'"`
	Dir   string `cli:"name=C desc='workspace root directory'"`
	Glob  string `cli:"name=w aliases=glob desc='doublestar pattern of workspace documents'"`

	Stats bool `cli:"name=stats desc='print include counters to stderr on exit'"`

	J bool `cli:"name=j aliases=json desc='output json'"`
	Y bool `cli:"name=y aliases=yaml desc='output yaml'"`

	OutFormat *format.Format

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) outFormat() format.Format {
	var f format.Format
	switch {
	case cfg.Y:
		f = format.YAMLFormat
	case cfg.J:
		f = format.JSONFormat
	}
	if cfg.OutFormat != nil {
		f = *cfg.OutFormat
	}
	return f
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.outFormat()),
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	colorsSet := false
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name != "color" {
				continue
			}
			colorsSet = opt.Value != nil
			break
		}
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// workspace opens every document of the workspace root matching the
// configured pattern. With virtual set, include sites are expanded.
func (cfg *MainConfig) workspace(virtual bool, opts ...parse.ParseOption) (*doc.Workspace, error) {
	dir, glob := cfg.Dir, cfg.Glob
	if dir == "" {
		dir = "."
	}
	if glob == "" {
		glob = defaultGlob
	}
	ws := doc.NewWorkspace()
	if _, err := ws.OpenFS(os.DirFS(dir), glob, doc.OpenParseOptions(opts...)); err != nil {
		return nil, err
	}
	if virtual {
		ws.SetExpander(&include.Expander{Locate: include.Locator(ws)})
	}
	return ws, nil
}

type ViewConfig struct {
	*MainConfig

	Virtual  bool `cli:"name=v aliases=virtual desc='expand include sites'"`
	Origins  bool `cli:"name=origins desc='annotate included content with where it lives'"`
	Comments bool `cli:"name=c desc='include comments'"`
	View     *cli.Command
}

type NavConfig struct {
	*MainConfig

	Nav *cli.Command
}

type FindConfig struct {
	*MainConfig

	Where string `cli:"name=where desc='expr-lang condition on nodes'"`
	Find  *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

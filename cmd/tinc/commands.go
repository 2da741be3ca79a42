package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "O",
		Aliases:     []string{"ofmt"},
		Description: "output format: json/j, yaml/y",
		Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
	})

	return cli.NewCommandAt(&cfg.Main, "tinc").
		WithSynopsis("tinc [opts] command [opts]").
		WithDescription("tinc views object documents with their include sites expanded.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tincMain(cfg, cc, args)
		}).
		WithSubs(
			ViewCommand(cfg),
			NavCommand(cfg),
			FindCommand(cfg),
			DiffCommand(cfg))
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithOpts(opts...).
		WithSynopsis("view [-v] [docs]").
		WithDescription("view workspace documents, physical or with include sites expanded").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func NavCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &NavConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Nav, "nav").
		WithAliases("n").
		WithSynopsis("nav <doc> <kpath>").
		WithDescription(navDescription).
		WithRun(func(cc *cli.Context, args []string) error {
			return nav(cfg, cc, args)
		})
}

const navDescription = `nav finds the node at a path of the expanded document and
prints where that node lives.

The path is a kinded path such as 'spec.hosts[0]' in the document as viewed
with 'view -v'. Nodes reached through an include site live in the included
document.`

func FindCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FindConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Find, "find").
		WithAliases("f").
		WithOpts(opts...).
		WithSynopsis("find -where <expr> [docs]").
		WithDescription(findDescription).
		WithRun(func(cc *cli.Context, args []string) error {
			return find(cfg, cc, args)
		})
}

const findDescription = `find lists the nodes of expanded documents for which an
expression holds.

The expression sees: doc, path, name, kind (Tag, Attribute, Text), type,
tag, value (scalars only), included and origin.

  tinc find -where 'included && kind == "Attribute" && value > 1000'`

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff <doc>").
		WithDescription("diff a document against its expanded view; exits 1 if they differ").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

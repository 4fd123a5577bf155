// Command wikiz renders one wiki template to stdout using the template
// search paths, locale files and content hooks configured through the
// WIKIZ_* environment variables.
//
//	wikiz [--kind html] [--layout layout] [--no-layout] [--locale de_AT] [--set key=value ...] NAME
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zoobzio/wikiz"
	"github.com/zoobzio/wikiz/config"
	"github.com/zoobzio/wikiz/i18n"
	"github.com/zoobzio/wikiz/render"
	"github.com/zoobzio/wikiz/templates"
	"go.uber.org/zap"
)

// Built-in page types and events.
const (
	TypePage     wikiz.TypeID = "page"
	TypeWikiPage wikiz.TypeID = "wiki_page"

	EventHead   wikiz.Event = "page.head"
	EventFooter wikiz.Event = "page.footer"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// page is the receiver templates render against.
type page struct {
	wikiz.Base
	Name string
}

type renderFlags struct {
	kind     string
	layout   string
	noLayout bool
	locale   string
	set      []string
}

func run(out io.Writer, args []string) error {
	if args == nil {
		args = []string{}
	}
	cmd := newRootCmd(out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd(out io.Writer) *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "wikiz NAME",
		Short: "Render a wiki template to stdout",
		Long: `Render a wiki template to stdout.

Template search paths, locale files, production mode and logging are read
from the WIKIZ_* environment variables. HTML templates are wrapped in the
layout template unless --no-layout is given.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderTemplate(cmd.OutOrStdout(), args[0], flags)
		},
	}
	cmd.SetOut(out)

	f := cmd.Flags()
	f.StringVarP(&flags.kind, "kind", "k", render.KindHTML, "template kind: html, md or css")
	f.StringVar(&flags.layout, "layout", render.DefaultLayout, "layout template name")
	f.BoolVar(&flags.noLayout, "no-layout", false, "skip the layout template")
	f.StringVarP(&flags.locale, "locale", "l", "", "locale code, overrides WIKIZ_LOCALE")
	f.StringArrayVarP(&flags.set, "set", "s", nil, "template local as key=value (repeatable)")
	return cmd
}

func parseLocals(values []string) (map[string]any, error) {
	locals := make(map[string]any, len(values))
	for _, value := range values {
		key, val, ok := strings.Cut(value, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", value)
		}
		locals[key] = val
	}
	return locals, nil
}

func renderTemplate(out io.Writer, name string, flags renderFlags) error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	if flags.locale != "" {
		cfg.Locale = flags.locale
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	locals, err := parseLocals(flags.set)
	if err != nil {
		return err
	}

	logger := cfg.NewLogger()
	defer func() { _ = logger.Sync() }()

	registry := wikiz.New(wikiz.WithLogger(logger.Named("hooks")))
	registerBuiltins(registry, cfg)

	catalog := i18n.New(cfg.Locale, i18n.WithLogger(logger.Named("i18n")))
	for _, pattern := range cfg.LocalePaths {
		catalog.LoadLocale(pattern)
	}

	cache := templates.New(
		templates.WithPaths(cfg.TemplatePaths...),
		templates.WithProduction(cfg.Production),
		templates.WithLogger(logger.Named("templates")),
	)
	engine := render.New(cache, catalog, render.WithLogger(logger.Named("render")))

	self := &page{Base: wikiz.Base{Type: TypeWikiPage, Registry: registry}, Name: name}
	opts := render.Options{Locals: locals, NoLayout: flags.noLayout, Layout: flags.layout}

	var output string
	switch flags.kind {
	case render.KindHTML:
		output, err = engine.Page(name, self, opts)
	case render.KindStylesheet:
		output, err = engine.Stylesheet(name)
	default:
		output, err = engine.Render(flags.kind, name, self, opts)
	}
	if err != nil {
		logger.Error("render failed", zap.String("name", name), zap.String("kind", flags.kind), zap.Error(err))
		return err
	}

	_, err = io.WriteString(out, output)
	return err
}

func registerBuiltins(registry *wikiz.Registry, cfg config.Config) {
	registry.DefineType(TypePage, wikiz.Root)
	registry.DefineType(TypeWikiPage, TypePage)

	registry.Register(TypePage, EventHead, func(self wikiz.Hookable, args ...any) (any, error) {
		return `<meta name="generator" content="wikiz">`, nil
	})
	registry.Register(TypePage, EventFooter, func(self wikiz.Hookable, args ...any) (any, error) {
		p, ok := self.(*page)
		if !ok {
			return nil, fmt.Errorf("unexpected receiver %T", self)
		}
		mode := "development"
		if cfg.Production {
			mode = "production"
		}
		return `<footer>` + wikiz.EscapeHTML(p.Name) + ` (` + mode + `)</footer>`, nil
	})
}

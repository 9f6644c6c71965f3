package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/mevdschee/axamltranslate/internal/config"
	"github.com/mevdschee/axamltranslate/internal/locale"
	"github.com/mevdschee/axamltranslate/internal/session"
)

const version = "1.0.0"

var log = logging.Logger("axamltranslate")

// checkArg is accepted after the language identifier as well as a flag.
const checkArg = "--check"

func main() {
	config.LoadEnv()

	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		log.Debugf("%+v", err)
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdin io.ReadCloser, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:        "axamltranslate",
		Usage:       "Find and fill missing translations in Avalonia locale files",
		Version:     version,
		ArgsUsage:   "<lang_id> [--check]",
		Description: "Flags go before <lang_id>; only --check may also follow it.",
		Writer:      stdout,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Only report missing keys, do not edit the file",
			},
			&cli.BoolFlag{
				Name:  "auto",
				Usage: "Machine-translate every missing key",
			},
			&cli.BoolFlag{
				Name:  "suggest",
				Usage: "Show a machine-translated suggestion for every key in interactive mode",
			},
			&cli.BoolFlag{
				Name:  "fast",
				Usage: "Use the short delay between machine translations",
			},
			&cli.StringFlag{
				Name:  "source-lang",
				Usage: "Source language for machine translation (default: derived from the reference file)",
			},
			&cli.StringFlag{
				Name:  "target-lang",
				Usage: "Target language for machine translation (default: derived from lang_id)",
			},
			&cli.StringFlag{
				Name:    "locales-dir",
				Usage:   "Directory holding the <lang_id>.axaml files",
				EnvVars: []string{"AXAMLTRANSLATE_LOCALES_DIR"},
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "TOML config file (default: " + config.DefaultFile + " if present)",
				EnvVars: []string{"AXAMLTRANSLATE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"AXAMLTRANSLATE_LOG_LEVEL"},
			},
		},
		Before: func(cctx *cli.Context) error {
			return logging.SetLogLevelRegex("axamltranslate|locale|session|config", cctx.String("log-level"))
		},
		Action: func(cctx *cli.Context) error {
			return run(cctx, stdin, stdout)
		},
	}
}

type mode int

const (
	modeInteractive mode = iota
	modeCheck
	modeAuto
)

func run(cctx *cli.Context, stdin io.ReadCloser, out io.Writer) error {
	if cctx.NArg() < 1 {
		_ = cli.ShowAppHelp(cctx)
		return xerrors.New("missing <lang_id>")
	}
	lang := cctx.Args().First()

	m := modeInteractive
	if cctx.Bool("check") {
		m = modeCheck
	}
	for _, arg := range cctx.Args().Tail() {
		switch {
		case arg == checkArg:
			m = modeCheck
		case strings.HasPrefix(arg, "-"):
			return xerrors.Errorf("flag %s must come before <lang_id> (only %s may follow it)", arg, checkArg)
		}
	}
	if cctx.Bool("auto") {
		if m == modeCheck {
			return xerrors.New("--check and --auto cannot be combined")
		}
		m = modeAuto
	}

	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}
	if cctx.IsSet("locales-dir") {
		cfg.LocalesDir = cctx.String("locales-dir")
	}

	ns := locale.DefaultNamespaces()
	paths, err := locale.Resolve(cfg.LocalesDir, lang, ns)
	if err != nil {
		return err
	}

	target, err := locale.Load(paths.Target, ns)
	if err != nil {
		return err
	}
	reference, err := locale.Load(paths.Reference, ns)
	if err != nil {
		return err
	}

	targetStrings := target.Catalog()
	refStrings := reference.Catalog()
	session.ReportDuplicates(out, paths.Target, targetStrings)
	session.ReportDuplicates(out, paths.Reference, refStrings)

	missing := locale.MissingKeys(targetStrings.Strings, refStrings.Strings)
	if len(missing) == 0 {
		fmt.Fprintln(out, "All keys are translated. Nothing to do.")
		return nil
	}

	fmt.Fprintf(out, "Found %d missing keys for language '%s'.\n", len(missing), lang)

	if m == modeCheck {
		session.Report(out, missing)
		return nil
	}

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	saveOpts := locale.SaveOptions{Indent: cfg.Indent, IndentSpaces: cfg.IndentSpaces}

	var res session.Result
	switch m {
	case modeAuto:
		from, to, err := languages(cctx, cfg, paths)
		if err != nil {
			return err
		}
		delay := cfg.Delay.Duration
		if cctx.Bool("fast") {
			delay = cfg.FastDelay.Duration
		}

		fmt.Fprintf(out, "Translating from %s to %s...\n", from, to)
		af := &session.AutoFill{
			Out:         out,
			Err:         cctx.App.ErrWriter,
			Translator:  session.GoogleTranslator{},
			From:        from,
			To:          to,
			Delay:       delay,
			Description: filepath.Base(paths.Target),
		}
		res = af.Run(ctx, target, refStrings.Strings, missing)

	default:
		fmt.Fprint(out, "Starting interactive translation...\n\n")

		cs := readline.NewCancelableStdin(stdin)
		go func() {
			<-ctx.Done()
			cs.Close() // nolint:errcheck
		}()

		terminal := stdin == os.Stdin && readline.DefaultIsTerminal()
		prompter, err := session.NewReadlinePrompter(cs, out, terminal)
		if err != nil {
			return err
		}
		defer prompter.Close() // nolint:errcheck

		ed := &session.Editor{Out: out, Prompter: prompter}
		if cctx.Bool("suggest") {
			from, to, err := languages(cctx, cfg, paths)
			if err != nil {
				return err
			}
			ed.Suggester = session.GoogleTranslator{}
			ed.From, ed.To = from, to
		}
		res = ed.Run(ctx, target, refStrings.Strings, missing)
	}

	return session.Finalize(out, target, paths.Target, res, saveOpts)
}

// languages picks the machine translation language pair: flags first, then
// config, then the locale codes of the reference and target files.
func languages(cctx *cli.Context, cfg *config.Config, paths locale.Paths) (string, string, error) {
	from := cctx.String("source-lang")
	if from == "" {
		from = cfg.SourceLang
	}
	if from == "" {
		l, err := session.TranslationLanguage(paths.ReferenceCode)
		if err != nil {
			return "", "", xerrors.Errorf("source language (use --source-lang): %w", err)
		}
		from = l
	}

	to := cctx.String("target-lang")
	if to == "" {
		l, err := session.TranslationLanguage(paths.Lang)
		if err != nil {
			return "", "", xerrors.Errorf("target language (use --target-lang): %w", err)
		}
		to = l
	}
	return from, to, nil
}

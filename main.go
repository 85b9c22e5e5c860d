// grist is a localization resource pipeline. It gathers translateable messages
// from resource documents, applies translations and writes localized
// outputs for every language.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/grist/config"
	"github.com/minios-linux/grist/extract"
	"github.com/minios-linux/grist/langmeta"
	"github.com/minios-linux/grist/lockfile"
	"github.com/minios-linux/grist/message"
	"github.com/minios-linux/grist/pipeline"
	"github.com/minios-linux/grist/pseudo"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	infoTag    = color.New(color.FgBlue).Sprint("[INFO]")
	successTag = color.New(color.FgGreen).Sprint("[OK]")
	warningTag = color.New(color.FgYellow, color.Bold).Sprint("[WARN]")
	errorTag   = color.New(color.FgRed).Sprint("[ERROR]")
	headingFmt = color.New(color.FgBlue, color.Bold)
)

// logOut receives the CLI's own status lines.
var logOut io.Writer = os.Stderr

func logInfo(format string, args ...any) {
	fmt.Fprintf(logOut, infoTag+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(logOut, successTag+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(logOut, warningTag+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(logOut, errorTag+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir string
	verbose bool
	quiet   bool
)

// setupLogging routes library logs through a console writer on stderr.
func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logOut, TimeFormat: "15:04:05"})
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "grist",
		Short: "Localization resource pipeline",
		Long: `grist: localization resource pipeline.

Gathers translateable messages from RC files, plain text resources and
messages.json bundles, shares identical messages across documents, applies
translations from PO catalogs, synthesizes pseudo-locales and writes every
document back out per language.

Commands:
  init        Scan the project and write .grist.yaml
  extract     Export messages.pot and update {lang}.po catalogs
  build       Gather, translate and write all outputs
  shortcuts   Report conflicting keyboard shortcuts
  pseudo      Print the pseudo-translation of a string
  status      Show project info and translation coverage`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only show warnings and errors")

	root.AddCommand(
		newInitCmd(),
		newExtractCmd(),
		newBuildCmd(),
		newShortcutsCmd(),
		newPseudoCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// loadConfig reads the project config and explains how to create one.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootDir)
	if errors.Is(err, config.ErrNoConfig) {
		return nil, fmt.Errorf("%w (run 'grist init' first)", err)
	}
	return cfg, err
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "grist version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// init (scan for resources, write .grist.yaml)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var (
		langs []string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir...]",
		Short: "Scan the project and write .grist.yaml",
		Long: `Scan the given directories (default: the project root) for RC files,
text resources and messages.json bundles and write a .grist.yaml that
declares each of them as a source. Review the file before building:
sources can be given descriptions, ids and extra outputs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args, langs, force)
		},
	}

	cmd.Flags().StringSliceVarP(&langs, "lang", "l", nil, "Translated languages (default: detect from PO files)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing .grist.yaml")

	return cmd
}

func runInit(dirs, langs []string, force bool) error {
	path := filepath.Join(rootDir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	sources, err := extract.FindSources(rootDir, dirs)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		logWarning("No resource files found in %s", strings.Join(dirs, ", "))
	} else {
		logInfo("Found %d sources: %s", len(sources), extract.DescribeSources(sources))
	}

	cfg := config.Config{
		Project:   config.Project{Name: filepath.Base(absRoot())},
		Languages: langs,
		Sources:   sources,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if _, err := config.Parse(rootDir, data); err != nil {
		return err
	}
	header := "# grist project file. See 'grist --help'.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logSuccess("Wrote %s", path)
	return nil
}

func absRoot() string {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return rootDir
	}
	return abs
}

// ---------------------------------------------------------------------------
// extract (messages.pot + {lang}.po)
// ---------------------------------------------------------------------------

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Export messages.pot and update {lang}.po catalogs",
		Long: `Gather every source, write the message template to the translations
directory and merge it into the PO catalog of every translated language.
Existing translations are kept; translations of messages whose text
changed are carried over as fuzzy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			written, err := pipeline.Export(cmd.Context(), cfg, pipeline.Options{})
			if err != nil {
				return err
			}
			for _, p := range written {
				logSuccess("Wrote %s", relPath(p))
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// build
// ---------------------------------------------------------------------------

func newBuildCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Gather, translate and write all outputs",
		Long: `Gather every source, apply the PO catalogs, synthesize pseudo-locales,
check keyboard shortcuts and write every configured output for every
language. Sources that fail to parse are skipped and reported; the build
fails at the end if anything could not be produced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rep, err := pipeline.Run(cmd.Context(), cfg, pipeline.Options{DryRun: dryRun})
			if rep != nil {
				printBuildSummary(cmd.OutOrStdout(), rep, dryRun)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Do not write outputs or the lock file")

	return cmd
}

func printBuildSummary(w io.Writer, rep *pipeline.Report, dryRun bool) {
	verb := "Wrote"
	if dryRun {
		verb = "Would write"
	}
	fmt.Fprintf(w, "%s %d files\n", verb, len(rep.Written))
	for _, p := range rep.Written {
		fmt.Fprintf(w, "  %s\n", relPath(p))
	}

	names := make([]string, 0, len(rep.Changes))
	for name, c := range rep.Changes {
		if !c.Empty() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s: %s\n", name, rep.Changes[name])
	}

	if n := len(rep.Warnings); n > 0 {
		fmt.Fprintf(w, "%d shortcut warnings\n", n)
	}
}

func relPath(p string) string {
	if rel, err := filepath.Rel(absRoot(), p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return p
}

// ---------------------------------------------------------------------------
// shortcuts
// ---------------------------------------------------------------------------

func newShortcutsCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "shortcuts",
		Short: "Report conflicting keyboard shortcuts",
		Long: `Check every shortcut group (dialog, menu) in every language, including
pseudo-locales, for messages that use the same accelerator key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p := pipeline.Gather(cmd.Context(), cfg, pipeline.Options{})
			for name, err := range p.Failed() {
				logWarning("Skipping %s: %v", name, err)
			}
			if _, err := p.LoadTranslations(log.Logger); err != nil {
				return err
			}
			p.Pseudo()

			warnings := p.ShortcutWarnings()
			out := cmd.OutOrStdout()
			for _, w := range warnings {
				fmt.Fprintln(out, w)
			}
			if len(warnings) == 0 {
				logSuccess("No shortcut conflicts")
				return nil
			}
			if strict {
				return fmt.Errorf("%d shortcut conflicts", len(warnings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when conflicts are found")

	return cmd
}

// ---------------------------------------------------------------------------
// pseudo
// ---------------------------------------------------------------------------

func newPseudoCmd() *cobra.Command {
	var rtl bool

	cmd := &cobra.Command{
		Use:   "pseudo <text>...",
		Short: "Print the pseudo-translation of a string",
		Long: `Print the accented (default) or right-to-left pseudo-translation of each
argument. printf-style placeholders are left untouched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := pseudo.Accented
			if rtl {
				kind = pseudo.RTL
			}
			out := cmd.OutOrStdout()
			for _, arg := range args {
				s, err := pseudoText(arg, kind)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rtl, "rtl", false, "Use the right-to-left generator")

	return cmd
}

func pseudoText(text string, kind pseudo.Kind) (string, error) {
	m, err := message.New(text, message.WithScanner(message.PrintfScanner))
	if err != nil {
		return "", err
	}
	return message.RealContent(pseudo.Parts(m.Parts(), pseudo.Func(kind))), nil
}

// ---------------------------------------------------------------------------
// status (read-only: project info + translation coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show project info and translation coverage",
		Long: `Show the configured sources, the languages that will be built and the
share of messages translated in each of them. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runStatus(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

func runStatus(ctx context.Context, w io.Writer, cfg *config.Config) error {
	// Gathering logs are noise here; failures are listed below.
	silent := zerolog.Nop()
	p := pipeline.Gather(ctx, cfg, pipeline.Options{Logger: &silent})

	headingFmt.Fprintln(w, "Project")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	if cfg.Project.Name != "" {
		fmt.Fprintf(w, "  Name:       %s\n", cfg.Project.Name)
	}
	if cfg.Project.Version != "" {
		fmt.Fprintf(w, "  Version:    %s\n", cfg.Project.Version)
	}
	fmt.Fprintf(w, "  Root:       %s\n", cfg.Root())
	fmt.Fprintf(w, "  Sources:    %s\n", extract.DescribeSources(cfg.Sources))
	fmt.Fprintf(w, "  Messages:   %d\n", p.Uber.Len())
	fmt.Fprintf(w, "  Source:     %s\n", cfg.SourceLang)
	if cfg.LockEnabled() {
		lf, err := lockfile.Load(cfg.Root())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  Lock:       %s\n", lf.Summary())
	}
	fmt.Fprintln(w)

	failed := p.Failed()
	if len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for name := range failed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			logWarning("%s: %v", name, failed[name])
		}
	}

	if _, err := p.LoadTranslations(silent); err != nil {
		return err
	}
	p.Pseudo()
	showCoverageTable(w, p.Coverage())
	return nil
}

func showCoverageTable(w io.Writer, stats []pipeline.LangStatus) {
	headingFmt.Fprintln(w, "Translation Coverage")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%-10s %-24s %-12s %-10s %s\n", "Lang", "Name", "Translated", "Missing", "Progress")
	fmt.Fprintln(w, strings.Repeat("─", 77))

	for _, s := range stats {
		lang := s.Lang
		if s.Pseudo {
			lang += "*"
		}
		name := langmeta.Resolve(s.Lang).Name
		fmt.Fprintf(w, "%-10s %-24s %-12d %-10d %s\n", lang, name, s.Translated, s.Total-s.Translated, progressBar(s.Percent(), 20))
	}
	if len(stats) == 0 {
		fmt.Fprintln(w, "(no target languages)")
	}
	fmt.Fprintln(w)
}

// progressBar renders percent as a colored bar of the given width followed
// by the number.
func progressBar(percent, width int) string {
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	c := color.New(color.FgRed)
	switch {
	case percent == 100:
		c = color.New(color.FgGreen)
	case percent >= 50:
		c = color.New(color.FgYellow)
	}
	return c.Sprint(bar) + fmt.Sprintf(" %3d%%", percent)
}

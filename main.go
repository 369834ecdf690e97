// Package main implements a CLI tool to bump the version of a .NET project
// file, commit the change and tag it.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	csversion "github.com/bcomnes/csversion/pkg"
	"github.com/bcomnes/csversion/pkg/config"
	"github.com/bcomnes/csversion/pkg/csproj"
	"github.com/bcomnes/csversion/pkg/output"
	"github.com/bcomnes/csversion/pkg/semver"
	"github.com/bcomnes/csversion/pkg/vcs"
	"github.com/cockroachdb/errors"
	"github.com/manifoldco/promptui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type cliFlags struct {
	projectFile string
	property    string
	format      output.Format
	dryRun      bool
	skipVcs     bool
	prefix      string
	buildMeta   string
	message     string
	tag         string
	newVersion  string
	vcsName     string
	bumpFiles   []string
	extraFiles  []string
	interactive bool
	verbose     bool
}

// selectBump asks for a bump kind; swapped out in tests.
var selectBump = func() (string, error) {
	items := lo.Map(semver.BumpKinds(), func(k semver.BumpKind, _ int) string { return k.String() })
	p := promptui.Select{
		Label: "Version bump",
		Items: items,
	}
	_, choice, err := p.Run()
	return choice, err
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &cliFlags{}
	kinds := lo.Map(semver.BumpKinds(), func(k semver.BumpKind, _ int) string { return k.String() })

	cmd := &cobra.Command{
		Use:   "csversion [flags] <version-bump>",
		Short: "Bump the version of a .NET project file",
		Long: `Bumps the version recorded in a .NET project file (.csproj, .fsproj or .vbproj),
commits the change and tags it, by default with "v<new version>".

The version is read from <Version>, falling back to <VersionPrefix>-<VersionSuffix> when
<Version> is empty, or from <PackageVersion> with --project-file-property PackageVersion.

Defaults are read from .csversion.yaml in the project directory or the home directory.`,
		Example: `  csversion minor
  csversion --prefix beta premajor
  csversion --dry-run -o json patch
  csversion --new-version 2.1.0-rc.1
  csversion -m "release $projName v$newVer" -t "$projName-v$newVer" major
  csversion --bump-file package.json --bump-file README.md patch`,
		Args:          cobra.MaximumNArgs(1),
		ValidArgs:     kinds,
		Version:       csversion.Version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("csversion CLI version {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVarP(&f.projectFile, "project-file", "f", "", "project file, or a directory containing exactly one (default: working directory)")
	flags.StringVarP(&f.property, "project-file-property", "p", string(csproj.Version), "property holding the version: Version or PackageVersion")
	flags.VarP(&f.format, "output-format", "o", fmt.Sprintf("output format, one of %v", output.Formats))
	flags.BoolVarP(&f.dryRun, "dry-run", "d", false, "compute the new version without writing files or touching version control")
	flags.BoolVarP(&f.skipVcs, "skip-vcs", "s", false, "do not check, commit or tag in version control")
	flags.StringVar(&f.prefix, "prefix", semver.DefaultPreReleasePrefix, "pre-release label for pre* bumps")
	flags.StringVarP(&f.buildMeta, "build-meta", "b", "", "build metadata appended after +")
	flags.StringVarP(&f.message, "message", "m", csversion.DefaultTemplate, "commit message template ($oldVer, $newVer, $projName)")
	flags.StringVarP(&f.tag, "tag", "t", csversion.DefaultTemplate, "tag name template ($oldVer, $newVer, $projName)")
	flags.StringVar(&f.newVersion, "new-version", "", "set an explicit version instead of bumping")
	flags.StringArrayVar(&f.bumpFiles, "bump-file", nil, "additional file whose main version is replaced. May be repeated.")
	flags.StringArrayVar(&f.extraFiles, "file", nil, "additional file to commit with the bump. May be repeated.")
	flags.StringVar(&f.vcsName, "vcs", "git", fmt.Sprintf("version control tool, one of %v", vcs.Names))
	flags.BoolVarP(&f.interactive, "interactive", "i", false, "choose the version bump interactively")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log every step to stderr")

	return cmd
}

func run(cmd *cobra.Command, f *cliFlags, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(configDir(f.projectFile))
	if err != nil {
		return err
	}
	if err := merge(cmd, f, cfg); err != nil {
		return err
	}

	kind, err := bumpKind(f, args)
	if err != nil {
		return err
	}

	prop, err := csproj.ParseProperty(f.property)
	if err != nil {
		return err
	}
	if prop != csproj.Version && prop != csproj.PackageVersion {
		return errors.Newf("--project-file-property must be %s or %s, got %s", csproj.Version, csproj.PackageVersion, prop)
	}

	tool, err := vcs.New(f.vcsName, "")
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if f.verbose {
		logger = newVerboseLogger(stderr)
		defer logger.Sync() //nolint:errcheck
		if cfg.Path != "" {
			logger.Debug("config loaded", zap.String("path", cfg.Path))
		}
	}

	bumper := csversion.New(tool, csversion.WithLogger(logger), csversion.WithOutput(stdout))
	_, err = bumper.Execute(csversion.Options{
		VersionBump:         kind,
		NewVersion:          f.newVersion,
		OutputFormat:        f.format,
		DryRun:              f.dryRun,
		DoVcs:               !f.skipVcs,
		PreReleasePrefix:    f.prefix,
		BuildMeta:           f.buildMeta,
		CommitMessage:       f.message,
		VersionControlTag:   f.tag,
		ProjectFileProperty: prop,
		ProjectFile:         f.projectFile,
		BumpFiles:           f.bumpFiles,
		ExtraFiles:          f.extraFiles,
	})
	return err
}

// newVerboseLogger is zap's development logger writing to w.
func newVerboseLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core, zap.Development())
}

// merge fills every flag the user did not set from the configuration.
func merge(cmd *cobra.Command, f *cliFlags, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if !changed("vcs") {
		f.vcsName = cfg.Vcs
	}
	if !changed("project-file-property") {
		f.property = cfg.ProjectFileProperty
	}
	if !changed("prefix") {
		f.prefix = cfg.PreReleasePrefix
	}
	if !changed("message") {
		f.message = cfg.CommitMessage
	}
	if !changed("tag") {
		f.tag = cfg.VersionControlTag
	}
	if !changed("skip-vcs") {
		f.skipVcs = cfg.SkipVcs
	}
	if !changed("output-format") {
		format, err := output.ParseFormat(cfg.OutputFormat)
		if err != nil {
			return errors.Wrap(err, "configured output format")
		}
		f.format = format
	}
	f.bumpFiles = append(cfg.BumpFiles, f.bumpFiles...)
	return nil
}

func bumpKind(f *cliFlags, args []string) (semver.BumpKind, error) {
	if f.newVersion != "" {
		if len(args) > 0 && !strings.EqualFold(args[0], semver.BumpSpecific.String()) {
			return semver.BumpNone, errors.Newf("--new-version cannot be combined with the %s bump", args[0])
		}
		return semver.BumpSpecific, nil
	}
	if len(args) == 0 {
		if !f.interactive {
			return semver.BumpNone, errors.New("<version-bump> positional argument is required")
		}
		choice, err := selectBump()
		if err != nil {
			return semver.BumpNone, errors.Wrap(err, "selecting version bump")
		}
		args = []string{choice}
	}
	kind, err := semver.ParseBumpKind(args[0])
	if err != nil {
		return semver.BumpNone, err
	}
	if kind == semver.BumpSpecific {
		return semver.BumpNone, errors.New("the specific bump requires --new-version")
	}
	return kind, nil
}

// configDir is where .csversion.yaml is looked up first.
func configDir(projectFile string) string {
	if projectFile == "" {
		return "."
	}
	if info, err := os.Stat(projectFile); err == nil && info.IsDir() {
		return projectFile
	}
	return filepath.Dir(projectFile)
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

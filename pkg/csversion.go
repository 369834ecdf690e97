package csversion

import (
	"io"
	"strings"

	"github.com/bcomnes/csversion/pkg/bumpfile"
	"github.com/bcomnes/csversion/pkg/csproj"
	"github.com/bcomnes/csversion/pkg/output"
	"github.com/bcomnes/csversion/pkg/semver"
	"github.com/bcomnes/csversion/pkg/vcs"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var (
	// ErrVcsToolMissing is returned when version control recording is
	// requested but the tool is not in PATH.
	ErrVcsToolMissing = errors.New("vcs tool missing")
	// ErrRepositoryDirty is returned when version control recording is
	// requested and the working tree has uncommitted changes.
	ErrRepositoryDirty = errors.New("repository dirty")
)

// Options configures one bump.
type Options struct {
	VersionBump semver.BumpKind
	// NewVersion is the explicit version applied by semver.BumpSpecific.
	NewVersion   string
	OutputFormat output.Format
	DryRun       bool
	DoVcs        bool

	PreReleasePrefix string
	BuildMeta        string
	// CommitMessage and VersionControlTag are templates, see RenderTemplate.
	CommitMessage     string
	VersionControlTag string

	ProjectFileProperty csproj.Property
	// ProjectFile is a project file or a directory holding exactly one.
	ProjectFile string
	// BumpFiles get their main version replaced with the new version.
	BumpFiles []string
	// ExtraFiles are committed along with the project file.
	ExtraFiles []string
}

// VersionMeta describes the outcome of a bump.
type VersionMeta struct {
	OldVersion    string
	NewVersion    string
	BumpType      string
	ProjectFile   string
	ProjectName   string
	VersionSource csproj.Property
	DryRun        bool
	// UpdatedFiles lists the files written, or that would be written on a dry run.
	UpdatedFiles []string
}

// Detector finds a project file and returns its contents.
type Detector interface {
	FindAndLoad(path string) (string, error)
	ResolvedFile() string
}

// Parser extracts version fields from a project file.
type Parser interface {
	Load(doc string, props ...csproj.Property) error
	Fields() csproj.Fields
}

// Patcher edits a project file in memory and writes it back.
type Patcher interface {
	Load(doc string)
	PatchField(value string, prop csproj.Property) error
	Flush(path string) error
}

// Bumper runs version bumps against a project file.
type Bumper struct {
	tool     vcs.Tool
	detector Detector
	parser   Parser
	patcher  Patcher
	logger   *zap.Logger
	out      io.Writer
}

// Option customizes a Bumper.
type Option func(*Bumper)

// WithDetector replaces the csproj detector.
func WithDetector(d Detector) Option { return func(b *Bumper) { b.detector = d } }

// WithParser replaces the csproj parser.
func WithParser(p Parser) Option { return func(b *Bumper) { b.parser = p } }

// WithPatcher replaces the csproj patcher.
func WithPatcher(p Patcher) Option { return func(b *Bumper) { b.patcher = p } }

// WithLogger logs every step to l.
func WithLogger(l *zap.Logger) Option { return func(b *Bumper) { b.logger = l } }

// WithOutput writes a report of every successful run to w.
func WithOutput(w io.Writer) Option { return func(b *Bumper) { b.out = w } }

// New returns a Bumper recording versions with tool. Unless overridden, it
// uses the csproj detector, parser and patcher and does not log.
func New(tool vcs.Tool, opts ...Option) *Bumper {
	b := &Bumper{
		tool:     tool,
		detector: csproj.NewDetector(),
		parser:   csproj.NewParser(),
		patcher:  csproj.NewPatcher(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Execute performs one bump: load the project file, resolve its version,
// check the repository, compute the new version and, unless this is a dry
// run, write it and record it in version control.
//
// A failure after the project file was written leaves it modified; there is
// no rollback.
func (b *Bumper) Execute(opts Options) (VersionMeta, error) {
	log := b.logger

	// 1. Load the project file
	doc, err := b.detector.FindAndLoad(opts.ProjectFile)
	if err != nil {
		return VersionMeta{}, err
	}
	if err := b.parser.Load(doc); err != nil {
		return VersionMeta{}, err
	}
	projectFile := b.detector.ResolvedFile()
	log.Debug("project file loaded", zap.String("path", projectFile))

	// 2. Resolve the current version
	desired := opts.ProjectFileProperty
	if desired == "" {
		desired = csproj.Version
	}
	fields := b.parser.Fields()
	source, oldVersion := csproj.Resolve(fields, desired)
	log.Debug("version resolved",
		zap.String("desired", string(desired)),
		zap.String("source", string(source)),
		zap.String("version", oldVersion))

	// 3. Guards
	if opts.DoVcs {
		if err := b.checkVcs(); err != nil {
			return VersionMeta{}, err
		}
		log.Debug("vcs guards passed", zap.String("tool", b.tool.Name()))
	}

	// 4. Compute the new version
	newVersion, err := b.compute(parseable(fields, source, oldVersion), opts)
	if err != nil {
		return VersionMeta{}, err
	}
	log.Debug("version computed",
		zap.String("bump", opts.VersionBump.String()),
		zap.String("old", oldVersion),
		zap.String("new", newVersion))

	meta := VersionMeta{
		OldVersion:    oldVersion,
		NewVersion:    newVersion,
		BumpType:      opts.VersionBump.String(),
		ProjectFile:   projectFile,
		ProjectName:   fields.PackageName,
		VersionSource: source,
		DryRun:        opts.DryRun,
	}

	// 5. Dry run exits before any write
	if opts.DryRun {
		meta.UpdatedFiles = append([]string{projectFile}, b.previewBumpFiles(opts.BumpFiles)...)
		log.Debug("dry run, no files were modified")
		return b.report(opts, meta)
	}

	if err := b.patch(doc, fields, source, newVersion, projectFile); err != nil {
		return VersionMeta{}, err
	}
	log.Info("project file updated",
		zap.String("path", projectFile),
		zap.String("property", string(source)),
		zap.String("version", newVersion))
	meta.UpdatedFiles = append([]string{projectFile}, b.writeBumpFiles(opts.BumpFiles, newVersion)...)

	// 6. Record in version control
	if opts.DoVcs {
		vars := TemplateVars{OldVersion: oldVersion, NewVersion: newVersion, ProjectName: fields.PackageName}
		if err := b.record(opts, vars, meta.UpdatedFiles); err != nil {
			log.Error("project file was updated but the version was not recorded",
				zap.Strings("files", meta.UpdatedFiles),
				zap.Error(err))
			return VersionMeta{}, err
		}
	}

	return b.report(opts, meta)
}

func (b *Bumper) checkVcs() error {
	name := b.tool.Name()
	if !b.tool.IsPresent() {
		return errors.Mark(errors.Newf("unable to find the vcs tool %s in your path", name), ErrVcsToolMissing)
	}
	clean, err := b.tool.IsRepositoryClean()
	if err != nil {
		return errors.Wrap(err, "checking repository status")
	}
	if !clean {
		return errors.Mark(
			errors.New("you currently have uncommitted changes in your repository, please commit these and try again"),
			ErrRepositoryDirty,
		)
	}
	return nil
}

// parseable returns the text the current version is parsed from. A composite
// with a blank VersionSuffix is just its VersionPrefix.
func parseable(fields csproj.Fields, source csproj.Property, rendered string) string {
	if source == csproj.VersionPrefix && strings.TrimSpace(fields.VersionSuffix) == "" {
		return strings.TrimSpace(fields.VersionPrefix)
	}
	return rendered
}

func (b *Bumper) compute(oldVersion string, opts Options) (string, error) {
	current, err := semver.Parse(oldVersion)
	if err != nil {
		return "", errors.Wrap(err, "reading current version")
	}

	if opts.VersionBump == semver.BumpSpecific {
		if opts.NewVersion == "" {
			return "", errors.New("an explicit version is required for a specific bump")
		}
		next, err := semver.ParseExplicit(opts.NewVersion)
		if err != nil {
			return "", err
		}
		if next.Compare(current) < 0 {
			b.logger.Warn("new version is lower than the current version",
				zap.String("old", current.String()),
				zap.String("new", next.String()))
		}
		return next.String(), nil
	}

	next, err := current.Bump(opts.VersionBump, semver.BumpOptions{
		PreReleasePrefix: opts.PreReleasePrefix,
		BuildMeta:        opts.BuildMeta,
	})
	if err != nil {
		return "", err
	}
	return next.String(), nil
}

// patch writes newVersion to the property the version was read from. The
// VersionPrefix composite is split at the first '-'; a blank VersionSuffix is
// left untouched when the new version has no suffix.
func (b *Bumper) patch(doc string, fields csproj.Fields, source csproj.Property, newVersion, path string) error {
	b.patcher.Load(doc)
	if source == csproj.VersionPrefix {
		prefix, suffix := splitComposite(newVersion)
		if err := b.patcher.PatchField(prefix, csproj.VersionPrefix); err != nil {
			return err
		}
		if suffix != "" || strings.TrimSpace(fields.VersionSuffix) != "" {
			if err := b.patcher.PatchField(suffix, csproj.VersionSuffix); err != nil {
				return err
			}
		}
	} else if err := b.patcher.PatchField(newVersion, source); err != nil {
		return err
	}
	return b.patcher.Flush(path)
}

func splitComposite(v string) (prefix, suffix string) {
	prefix, suffix, _ = strings.Cut(v, "-")
	return prefix, suffix
}

func (b *Bumper) previewBumpFiles(paths []string) []string {
	var found []string
	for _, path := range paths {
		m, err := bumpfile.FindMain(path)
		if err != nil {
			b.logger.Warn("unable to read bump file", zap.String("path", path), zap.Error(err))
			continue
		}
		if m == nil {
			b.logger.Warn("no version found in bump file", zap.String("path", path))
			continue
		}
		found = append(found, path)
	}
	return found
}

func (b *Bumper) writeBumpFiles(paths []string, newVersion string) []string {
	var bumped []string
	for _, path := range paths {
		ok, err := bumpfile.Bump(path, newVersion)
		if err != nil {
			b.logger.Warn("failed to bump version", zap.String("path", path), zap.Error(err))
			continue
		}
		if !ok {
			b.logger.Warn("no version found in bump file", zap.String("path", path))
			continue
		}
		b.logger.Info("bump file updated", zap.String("path", path), zap.String("version", newVersion))
		bumped = append(bumped, path)
	}
	return bumped
}

func (b *Bumper) record(opts Options, vars TemplateVars, updated []string) error {
	message := renderOrDefault(opts.CommitMessage, vars)
	tag := renderOrDefault(opts.VersionControlTag, vars)

	paths := append(append([]string{}, updated...), opts.ExtraFiles...)
	if err := b.tool.Commit(message, paths...); err != nil {
		return errors.Wrap(err, "committing version")
	}
	b.logger.Info("version committed", zap.String("tool", b.tool.Name()), zap.String("message", message))

	if err := b.tool.Tag(tag); err != nil {
		return errors.Wrap(err, "tagging version")
	}
	b.logger.Info("version tagged", zap.String("tool", b.tool.Name()), zap.String("tag", tag))
	return nil
}

func (b *Bumper) report(opts Options, meta VersionMeta) (VersionMeta, error) {
	if b.out == nil {
		return meta, nil
	}
	err := output.Write(b.out, opts.OutputFormat, output.Report{
		ProjectName:  meta.ProjectName,
		ProjectFile:  meta.ProjectFile,
		OldVersion:   meta.OldVersion,
		NewVersion:   meta.NewVersion,
		DryRun:       meta.DryRun,
		UpdatedFiles: meta.UpdatedFiles,
	})
	if err != nil {
		return VersionMeta{}, errors.Wrap(err, "writing report")
	}
	return meta, nil
}

// Run bumps the project file found at opts.ProjectFile and, when opts.DoVcs
// is set, commits and tags the change with git in the working directory.
func Run(opts Options) (VersionMeta, error) {
	opts.DryRun = false
	return New(vcs.NewGit("")).Execute(opts)
}

// DryRun computes the bump Run would perform without writing anything.
func DryRun(opts Options) (VersionMeta, error) {
	opts.DryRun = true
	return New(vcs.NewGit("")).Execute(opts)
}

package prebuild

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/logging"
	"github.com/eppisapiafsl/expo-cli/pkg/mods"
	"github.com/eppisapiafsl/expo-cli/pkg/slots"
	"github.com/eppisapiafsl/expo-cli/pkg/types"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Options configures a pass
type Options struct {
	ProjectRoot string
	// Platforms to run; all platforms whose directory exists when empty
	Platforms []types.Platform
	// DryRun computes changes without writing them
	DryRun bool
}

// Runner applies mod trees to the projects of a filesystem
type Runner struct {
	fs afero.Fs
}

// NewRunner creates a runner over fs
func NewRunner(fs afero.Fs) *Runner {
	return &Runner{fs: fs}
}

// Run evaluates every slot of exp that has mods. A platform writes its files
// only when all of its slots evaluated; other platforms still run. The first failure is
// returned together with the full result.
func (r *Runner) Run(ctx context.Context, exp mods.ExportedConfig, opts Options) (*Result, error) {
	runID := ulid.Make().String()
	logger := logging.GetLogger("prebuild").With().Str("run", runID).Logger()
	done := logging.LogOperationStart(logger, "prebuild")
	defer done()

	platforms := opts.Platforms
	explicit := len(platforms) > 0
	if !explicit {
		platforms = types.Platforms()
	}

	loc := newLocator(r.fs, opts.ProjectRoot)
	result := &Result{RunID: runID, DryRun: opts.DryRun}

	var firstErr error
	for _, platform := range platforms {
		pr, err := r.runPlatform(ctx, logger, loc, exp, platform, opts, explicit)
		result.Platforms = append(result.Platforms, pr)
		if err != nil {
			logger.Error().Err(err).Str("platform", platform.String()).Msg("Platform failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return result, firstErr
}

func (r *Runner) runPlatform(ctx context.Context, logger zerolog.Logger, loc *locator, exp mods.ExportedConfig, platform types.Platform, opts Options, explicit bool) (*PlatformResult, error) {
	logger = logger.With().Str("platform", platform.String()).Logger()
	pr := newPlatformResult(platform)

	var infos []slots.Info
	for _, info := range slots.Catalogue() {
		if info.Platform == platform {
			infos = append(infos, info)
		}
	}

	skipAll := func(reason string) {
		pr.Slots = pr.Slots[:0]
		for _, info := range infos {
			pr.Slots = append(pr.Slots, SlotResult{Platform: platform, Slot: info.Name, Status: StatusSkipped, Reason: reason})
		}
	}

	if !loc.isDir(platform.Dir()) {
		if explicit {
			skipAll("no project directory")
			pr.complete()
			return pr, errors.Newf(errors.ErrFileNotFound, "%s/ project directory not found", platform.Dir()).
				WithDetail("platform", platform.String())
		}
		logger.Warn().Msg("No native project directory, skipping platform")
		skipAll("no project directory")
		pr.complete()
		return pr, nil
	}

	req := mods.Request{
		ProjectRoot:         opts.ProjectRoot,
		PlatformProjectRoot: filepath.Join(opts.ProjectRoot, platform.Dir()),
	}

	if platform == types.PlatformIOS && hasMods(exp, platform) {
		name, err := loc.iosProjectName()
		if err != nil {
			for _, info := range infos {
				res := SlotResult{Platform: platform, Slot: info.Name, Status: StatusSkipped, Reason: "no mods"}
				if exp.Mods.Len(platform, info.Name) > 0 {
					res.Status, res.Reason, res.Err = StatusError, "", err
				}
				pr.Slots = append(pr.Slots, res)
			}
			pr.complete()
			return pr, err
		}
		req.ProjectName = name
		pr.ProjectName = name
	}

	pr.Slots = make([]SlotResult, len(infos))
	g, gctx := errgroup.WithContext(ctx)
	for i, info := range infos {
		i, info := i, info
		j := job{loc: loc, exp: exp, req: req, info: info, dryRun: opts.DryRun, logger: logger}
		g.Go(func() error {
			res := runSlot(gctx, j)
			pr.Slots[i] = res
			return res.Err
		})
	}
	err := g.Wait()
	switch {
	case err != nil:
		cancelPending(pr)
	case !opts.DryRun:
		err = commit(ctx, logger, loc, pipelineFS(opts.ProjectRoot), pr)
	}
	pr.complete()

	logger.Info().
		Int("written", pr.Written).
		Int("unchanged", pr.Unchanged).
		Int("skipped", pr.Skipped).
		Int("failed", pr.Failed).
		Msg("Platform done")
	return pr, err
}

func hasMods(exp mods.ExportedConfig, platform types.Platform) bool {
	return len(exp.Mods.Slots(platform)) > 0
}

type job struct {
	loc    *locator
	exp    mods.ExportedConfig
	req    mods.Request
	info   slots.Info
	dryRun bool
	logger zerolog.Logger
}

func runSlot(ctx context.Context, j job) SlotResult {
	switch j.info.Name {
	case slots.AndroidManifest.Name():
		return evaluate(ctx, j, slots.AndroidManifest, manifestCodec)
	case slots.AndroidStrings.Name():
		return evaluate(ctx, j, slots.AndroidStrings, resourcesCodec)
	case slots.AndroidMainActivity.Name():
		return evaluate(ctx, j, slots.AndroidMainActivity, projectFileCodec)
	case slots.IOSXcodeproj.Name():
		return evaluate(ctx, j, slots.IOSXcodeproj, projectCodec)
	}
	if slot, ok := slots.GradleSlot(string(j.info.Name)); ok {
		return evaluate(ctx, j, slot, projectFileCodec)
	}
	if slot, ok := slots.PlistSlot(string(j.info.Name)); ok {
		return evaluate(ctx, j, slot, plistCodec)
	}
	return SlotResult{
		Platform: j.info.Platform,
		Slot:     j.info.Name,
		Status:   StatusError,
		Err:      errors.Newf(errors.ErrInternal, "no codec for slot %s/%s", j.info.Platform, j.info.Name),
	}
}

// evaluate reads, transforms and writes one slot
func evaluate[T any](ctx context.Context, j job, slot mods.Slot[T], c codec[T]) SlotResult {
	start := time.Now()
	res := SlotResult{
		Platform: slot.Platform(),
		Slot:     slot.Name(),
		Links:    j.exp.Mods.Len(slot.Platform(), slot.Name()),
	}
	logger := j.logger.With().Str("slot", string(slot.Name())).Logger()

	finish := func(status SlotStatus, err error) SlotResult {
		res.Status = status
		res.Err = err
		res.Duration = time.Since(start)
		ev := logger.Debug()
		if err != nil {
			ev = logger.Error().Err(err)
		}
		ev.Str("path", res.Path).
			Str("status", string(status)).
			Int("links", res.Links).
			Dur("duration", res.Duration).
			Msg("Slot evaluated")
		return res
	}

	if res.Links == 0 {
		res.Reason = "no mods"
		return finish(StatusSkipped, nil)
	}

	path, exists, err := j.loc.resolve(slot.Name(), j.req.ProjectName)
	res.Path = path
	if err != nil {
		return finish(StatusError, err)
	}

	var (
		before []byte
		blank  []byte
		base   T
	)
	switch {
	case exists:
		before, err = j.loc.read(path)
		if err != nil {
			return finish(StatusError, err)
		}
		base, err = c.decode(path, before)
		if err != nil {
			if pe, ok := err.(*errors.PrebuildError); ok {
				pe.WithDetail("path", path)
			}
			return finish(StatusError, err)
		}
	case j.info.Required || c.empty == nil:
		return finish(StatusError, errors.Newf(errors.ErrFileNotFound, "required file %s does not exist", path).
			WithDetail("path", path).
			WithDetail("platform", slot.Platform().String()).
			WithDetail("slot", string(slot.Name())))
	default:
		base = c.empty(path)
		if blank, err = c.encode(c.empty(path)); err != nil {
			return finish(StatusError, errors.Wrapf(err, errors.ErrEncode, "cannot encode %s", path).
				WithDetail("path", path))
		}
	}

	out, err := mods.Evaluate(j.exp, slot, j.req, base)
	if err != nil {
		return finish(StatusError, err)
	}

	after, err := c.encode(out)
	if err != nil {
		return finish(StatusError, errors.Wrapf(err, errors.ErrEncode, "cannot encode %s", path).
			WithDetail("path", path))
	}

	if exists && bytes.Equal(before, after) {
		return finish(StatusUnchanged, nil)
	}
	if !exists && bytes.Equal(blank, after) {
		res.Reason = "nothing to write"
		return finish(StatusSkipped, nil)
	}
	if ctx.Err() != nil {
		res.Reason = "cancelled"
		return finish(StatusSkipped, nil)
	}
	if j.dryRun {
		res.Change = newChange(path, before, after)
		return finish(StatusChanged, nil)
	}
	res.pending = after
	return finish(statusPending, nil)
}

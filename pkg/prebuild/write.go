package prebuild

import (
	"context"
	"fmt"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/rs/zerolog"
)

// statusPending marks a slot whose bytes are computed but not yet written
const statusPending SlotStatus = "pending"

// pipelineFS is the filesystem the synthfs pipeline runs against, rooted at
// the project
func pipelineFS(root string) filesystem.FullFileSystem {
	return synthfs.NewPathAwareFileSystem(filesystem.NewOSFileSystem(root), root).WithAbsolutePaths()
}

// cancelPending drops the writes of a platform that failed
func cancelPending(pr *PlatformResult) {
	for i := range pr.Slots {
		if pr.Slots[i].Status == statusPending {
			pr.Slots[i].Status = StatusSkipped
			pr.Slots[i].Reason = "cancelled"
			pr.Slots[i].pending = nil
		}
	}
}

// commit writes the pending slots of a platform as one synthfs batch. Each
// operation result settles the status of its slot.
func commit(ctx context.Context, logger zerolog.Logger, loc *locator, target filesystem.FullFileSystem, pr *PlatformResult) error {
	sfs := synthfs.New()
	ops := []synthfs.Operation{}
	bySlot := make(map[synthfs.OperationID]int)

	for i := range pr.Slots {
		res := &pr.Slots[i]
		if res.Status != statusPending {
			continue
		}
		path, data := res.Path, res.pending
		id := fmt.Sprintf("write_%s_%s", res.Platform, res.Slot)
		op := sfs.CustomOperationWithID(id, func(ctx context.Context, _ filesystem.FileSystem) error {
			return loc.write(path, data)
		})
		ops = append(ops, op)
		bySlot[op.ID()] = i
	}

	if len(ops) == 0 {
		return nil
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = false

	logger.Debug().Int("operationCount", len(ops)).Msg("Writing slots")
	result, runErr := synthfs.RunWithOptions(ctx, target, options, ops...)

	var firstErr error
	if result != nil {
		for _, opResult := range result.GetOperations() {
			r, ok := opResult.(synthfs.OperationResult)
			if !ok {
				continue
			}
			i, ok := bySlot[r.OperationID]
			if !ok {
				logger.Warn().
					Str("operationID", string(r.OperationID)).
					Msg("Could not find slot for synthfs result")
				continue
			}

			res := &pr.Slots[i]
			res.pending = nil
			if r.Status == synthfs.StatusSuccess {
				res.Status = StatusWritten
				continue
			}

			err := writeError(r.Error, res.Path)
			res.Status, res.Err = StatusError, err
			logger.Error().Err(err).Str("slot", string(res.Slot)).Msg("Write failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr == nil && runErr != nil {
		firstErr = errors.Wrapf(runErr, errors.ErrFileWrite, "cannot write %s project", pr.Platform).
			WithDetail("platform", pr.Platform.String())
		for i := range pr.Slots {
			if pr.Slots[i].Status == statusPending {
				pr.Slots[i].Status, pr.Slots[i].Err = StatusError, firstErr
				pr.Slots[i].pending = nil
			}
		}
	}
	cancelPending(pr)
	return firstErr
}

func writeError(err error, path string) error {
	if err == nil {
		return errors.Newf(errors.ErrFileWrite, "cannot write %s", path).WithDetail("path", path)
	}
	if errors.GetErrorCode(err) != errors.ErrUnknown {
		return err
	}
	return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path).WithDetail("path", path)
}

package mods

import (
	"github.com/eppisapiafsl/expo-cli/pkg/logging"
)

// Request carries the paths an evaluation runs against
type Request struct {
	ProjectRoot         string
	PlatformProjectRoot string
	ProjectName         string
}

// Evaluate runs the chain registered for slot against base and returns the
// payload present when the chain terminated. A slot without mods returns
// base unchanged.
func Evaluate[T any](exported ExportedConfig, slot Slot[T], req Request, base T) (T, error) {
	out, err := EvaluateWithProps(exported, slot, req, base)
	if err != nil {
		var zero T
		return zero, err
	}
	return out.ModResults, nil
}

// EvaluateWithProps is Evaluate but also returns the config and request as
// the last link left them
func EvaluateWithProps[T any](exported ExportedConfig, slot Slot[T], req Request, base T) (ExportedConfigWithProps[T], error) {
	logger := logging.GetLogger("mods.evaluate").With().
		Str("platform", string(slot.platform)).
		Str("slot", string(slot.name)).
		Logger()

	cfg := ExportedConfigWithProps[T]{
		Config:     exported.Config.Clone(),
		ModResults: base,
		ModRequest: ModProps{
			ProjectRoot:         req.ProjectRoot,
			PlatformProjectRoot: req.PlatformProjectRoot,
			ModName:             slot.name,
			Platform:            slot.platform,
			ProjectName:         req.ProjectName,
		},
	}

	head, ok := Lookup(exported.Mods, slot)
	if !ok {
		logger.Trace().Msg("No mods registered, returning base value")
		return cfg, nil
	}

	done := logging.LogOperationStart(logger, "evaluate")
	defer done()

	step, err := invoke(head, cfg).Await()
	if err != nil {
		return ExportedConfigWithProps[T]{}, err
	}
	return step.Config, nil
}

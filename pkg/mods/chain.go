package mods

import (
	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/logging"
)

// Compose fuses links into a single mod that runs them in order. The
// composed mod owns the cursor: each link is invoked at most once and only
// after the previous link's future has resolved with Continue.
func Compose[T any](slot Slot[T], links ...Link[T]) Mod[T] {
	links = append([]Link[T](nil), links...)

	return func(cfg ExportedConfigWithProps[T]) *Future[T] {
		step, err := run(slot, links, cfg)
		if err != nil {
			return Fail[T](err)
		}
		return resolved(step, nil)
	}
}

func run[T any](slot Slot[T], links []Link[T], cfg ExportedConfigWithProps[T]) (Step[T], error) {
	logger := logging.GetLogger("mods.chain").With().
		Str("platform", string(slot.platform)).
		Str("slot", string(slot.name)).
		Int("links", len(links)).
		Logger()

	request := cfg.ModRequest
	request.ChainLength = len(links)

	for i, link := range links {
		request.Link = i
		request.LinkName = link.Name
		cfg.ModRequest = request

		logger.Trace().Int("link", i).Str("name", link.Name).Msg("Running link")

		step, err := invoke(link.Mod, cfg).Await()
		if err != nil {
			logger.Debug().Err(err).Int("link", i).Str("name", link.Name).Msg("Link failed")
			return Step[T]{}, errors.Wrapf(err, errors.ErrChainExecution,
				"mod %q (link %d of %s) failed", link.Name, i, slot).
				WithDetail("platform", string(slot.platform)).
				WithDetail("slot", string(slot.name)).
				WithDetail("link", link.Name).
				WithDetail("index", i)
		}

		cfg = step.Config
		cfg.ModRequest = request

		if !step.Continue {
			logger.Debug().Int("link", i).Str("name", link.Name).Msg("Link ended the chain")
			return Step[T]{Config: cfg, Continue: false}, nil
		}
	}

	return Step[T]{Config: cfg, Continue: true}, nil
}

func invoke[T any](mod Mod[T], cfg ExportedConfigWithProps[T]) (fut *Future[T]) {
	defer func() {
		if r := recover(); r != nil {
			fut = Fail[T](errors.Newf(errors.ErrInternal, "link panicked: %v", r))
		}
	}()

	fut = mod(cfg)
	if fut == nil {
		return Fail[T](errors.New(errors.ErrInternal, "mod returned no result"))
	}
	return fut
}

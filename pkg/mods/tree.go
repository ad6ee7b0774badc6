package mods

import (
	"sync"

	"github.com/eppisapiafsl/expo-cli/pkg/errors"
	"github.com/eppisapiafsl/expo-cli/pkg/types"
)

// ModConfig is the config tree: platform -> slot -> the links registered for
// it, in registration order. It is built once per configuration pass and is
// read-only after Freeze.
type ModConfig struct {
	mu     sync.RWMutex
	frozen bool
	chains map[types.Platform]map[SlotName]*entry
	order  map[types.Platform][]SlotName
}

// entry holds a []Link[T] behind an interface so that slots with different
// payload types share one map
type entry struct {
	links any
	names []string
}

// NewModConfig creates an empty tree
func NewModConfig() *ModConfig {
	return &ModConfig{
		chains: make(map[types.Platform]map[SlotName]*entry),
		order:  make(map[types.Platform][]SlotName),
	}
}

// Register appends mod as the newest contribution to slot. The first
// contribution becomes the chain head.
func Register[T any](tree *ModConfig, slot Slot[T], name string, mod Mod[T]) error {
	if tree == nil {
		return errors.New(errors.ErrInvalidInput, "cannot register a mod on a nil tree")
	}
	if mod == nil {
		return errors.Newf(errors.ErrInvalidInput, "mod %q for %s is nil", name, slot)
	}
	if name == "" {
		name = "anonymous"
	}

	tree.mu.Lock()
	defer tree.mu.Unlock()

	if tree.frozen {
		return errors.Newf(errors.ErrTreeFrozen, "cannot register %q on %s: config tree is frozen", name, slot).
			WithDetail("platform", string(slot.platform)).
			WithDetail("slot", string(slot.name))
	}

	slots, ok := tree.chains[slot.platform]
	if !ok {
		slots = make(map[SlotName]*entry)
		tree.chains[slot.platform] = slots
	}

	e, ok := slots[slot.name]
	if !ok {
		slots[slot.name] = &entry{links: []Link[T]{{Name: name, Mod: mod}}, names: []string{name}}
		tree.order[slot.platform] = append(tree.order[slot.platform], slot.name)
		return nil
	}

	links, ok := e.links.([]Link[T])
	if !ok {
		return errors.Newf(errors.ErrInvalidInput, "%s already holds mods of a different payload type", slot)
	}
	e.links = append(links, Link[T]{Name: name, Mod: mod})
	e.names = append(e.names, name)
	return nil
}

// MustRegister registers a mod and panics if registration fails
func MustRegister[T any](tree *ModConfig, slot Slot[T], name string, mod Mod[T]) {
	if err := Register(tree, slot, name, mod); err != nil {
		panic(err)
	}
}

// Lookup returns the composed chain for slot, or false when nothing was
// registered for it
func Lookup[T any](tree *ModConfig, slot Slot[T]) (Mod[T], bool) {
	links := linksFor(tree, slot)
	if len(links) == 0 {
		return nil, false
	}
	return Compose(slot, links...), true
}

func linksFor[T any](tree *ModConfig, slot Slot[T]) []Link[T] {
	if tree == nil {
		return nil
	}

	tree.mu.RLock()
	defer tree.mu.RUnlock()

	e, ok := tree.chains[slot.platform][slot.name]
	if !ok {
		return nil
	}
	links, ok := e.links.([]Link[T])
	if !ok {
		return nil
	}
	return append([]Link[T](nil), links...)
}

// Freeze makes the tree read-only
func (t *ModConfig) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}

// Frozen reports whether Freeze has been called
func (t *ModConfig) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}

// Slots returns the slots of platform that have at least one link, in the
// order they received their first contribution
func (t *ModConfig) Slots(platform types.Platform) []SlotName {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]SlotName(nil), t.order[platform]...)
}

// LinkNames returns the registered link names of a slot in execution order
func (t *ModConfig) LinkNames(platform types.Platform, name SlotName) []string {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.chains[platform][name]
	if !ok {
		return nil
	}
	return append([]string(nil), e.names...)
}

// Len returns the number of links registered for a slot
func (t *ModConfig) Len(platform types.Platform, name SlotName) int {
	return len(t.LinkNames(platform, name))
}

package mods

import (
	"fmt"

	"github.com/eppisapiafsl/expo-cli/pkg/types"
)

// SlotName is the name of a slot within its platform
type SlotName string

// Slot identifies one native artifact of one platform. The type parameter
// fixes the payload every mod registered for the slot operates on.
type Slot[T any] struct {
	platform types.Platform
	name     SlotName
}

// NewSlot declares a slot. Declare each (platform, name) pair once, with a
// single payload type; see package slots for the catalogue.
func NewSlot[T any](platform types.Platform, name SlotName) Slot[T] {
	return Slot[T]{platform: platform, name: name}
}

// Platform returns the platform the slot belongs to
func (s Slot[T]) Platform() types.Platform { return s.platform }

// Name returns the slot name
func (s Slot[T]) Name() SlotName { return s.name }

func (s Slot[T]) String() string {
	return fmt.Sprintf("%s/%s", s.platform, s.name)
}

package prebuild

import (
	"time"

	"github.com/eppisapiafsl/expo-cli/pkg/mods"
	"github.com/eppisapiafsl/expo-cli/pkg/types"
)

// SlotStatus is the outcome for one slot
type SlotStatus string

const (
	// StatusWritten means the file was rewritten
	StatusWritten SlotStatus = "written"
	// StatusChanged means the file would be rewritten (dry-run)
	StatusChanged SlotStatus = "changed"
	// StatusUnchanged means the chain produced identical bytes
	StatusUnchanged SlotStatus = "unchanged"
	// StatusSkipped means nothing ran for the slot
	StatusSkipped SlotStatus = "skipped"
	// StatusError means reading, evaluating or writing failed
	StatusError SlotStatus = "error"
)

// ExecutionStatus is the aggregated outcome of a platform
type ExecutionStatus string

const (
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusError   ExecutionStatus = "error"
	ExecutionStatusSkipped ExecutionStatus = "skipped"
	ExecutionStatusPending ExecutionStatus = "pending"
)

// SlotResult records what happened to one slot
type SlotResult struct {
	Platform types.Platform
	Slot     mods.SlotName
	// Path is relative to the project root, empty when never resolved
	Path     string
	Status   SlotStatus
	Reason   string
	Links    int
	Change   *Change
	Err      error
	Duration time.Duration

	pending []byte
}

// PlatformResult aggregates the slots of one platform
type PlatformResult struct {
	Platform    types.Platform
	ProjectName string
	Status      ExecutionStatus
	Slots       []SlotResult
	Written     int
	Unchanged   int
	Skipped     int
	Failed      int
	StartTime   time.Time
	EndTime     time.Time
}

// Result is the outcome of a whole pass
type Result struct {
	RunID     string
	DryRun    bool
	Platforms []*PlatformResult
}

// Changes returns every change of the pass in platform and slot order
func (r *Result) Changes() []Change {
	var out []Change
	for _, p := range r.Platforms {
		for _, s := range p.Slots {
			if s.Change != nil {
				out = append(out, *s.Change)
			}
		}
	}
	return out
}

// Platform returns the result for platform, nil when it did not run
func (r *Result) Platform(platform types.Platform) *PlatformResult {
	for _, p := range r.Platforms {
		if p.Platform == platform {
			return p
		}
	}
	return nil
}

// Slot returns the result for a slot of the platform
func (p *PlatformResult) Slot(name mods.SlotName) (SlotResult, bool) {
	for _, s := range p.Slots {
		if s.Slot == name {
			return s, true
		}
	}
	return SlotResult{}, false
}

func newPlatformResult(platform types.Platform) *PlatformResult {
	return &PlatformResult{
		Platform:  platform,
		Status:    ExecutionStatusPending,
		StartTime: time.Now(),
	}
}

// complete tallies the slot results and derives the platform status
func (p *PlatformResult) complete() {
	p.EndTime = time.Now()
	p.Written, p.Unchanged, p.Skipped, p.Failed = 0, 0, 0, 0
	for _, s := range p.Slots {
		switch s.Status {
		case StatusWritten, StatusChanged:
			p.Written++
		case StatusUnchanged:
			p.Unchanged++
		case StatusSkipped:
			p.Skipped++
		case StatusError:
			p.Failed++
		}
	}

	switch {
	case p.Failed > 0:
		p.Status = ExecutionStatusError
	case p.Skipped == len(p.Slots):
		p.Status = ExecutionStatusSkipped
	default:
		p.Status = ExecutionStatusSuccess
	}
}

package plan

import "fmt"

// Kind names an action variant.
type Kind string

const (
	KindCreateFolder Kind = "create_folder"
	KindMoveFile     Kind = "move_file"
)

// Action is one step of a plan. Name is set for create_folder; File and
// Target for move_file. All paths are relative to the library root.
type Action struct {
	Kind   Kind   `json:"action"`
	Name   string `json:"name,omitempty"`
	File   string `json:"file,omitempty"`
	Target string `json:"target,omitempty"`
}

// CreateFolder builds a create_folder action.
func CreateFolder(name string) Action {
	return Action{Kind: KindCreateFolder, Name: name}
}

// MoveFile builds a move_file action.
func MoveFile(file, target string) Action {
	return Action{Kind: KindMoveFile, File: file, Target: target}
}

// Describe renders the action for logs and tables.
func (a Action) Describe() string {
	switch a.Kind {
	case KindCreateFolder:
		return fmt.Sprintf("create_folder %s", a.Name)
	case KindMoveFile:
		return fmt.Sprintf("move_file %s -> %s", a.File, a.Target)
	default:
		return string(a.Kind)
	}
}

// Plan is an ordered list of actions.
type Plan struct {
	Actions []Action `json:"actions"`
}

// Status is the result of applying one action.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
)

// Skip reasons recorded on outcomes.
const (
	ReasonNotADirectory     = "not_a_directory"
	ReasonTargetNotCreated  = "target_not_created"
	ReasonSourceMissing     = "source_missing"
	ReasonNotRegular        = "not_regular"
	ReasonDestinationExists = "destination_exists"
	ReasonIOError           = "io_error"
	ReasonInvalidAction     = "invalid_action"
	ReasonCanceled          = "canceled"
)

// Outcome records what happened to the action at Index.
type Outcome struct {
	Index  int    `json:"index"`
	Action Action `json:"action"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// String yields "applied" or "skipped:<reason>".
func (o Outcome) String() string {
	if o.Status == StatusApplied {
		return string(StatusApplied)
	}
	return string(StatusSkipped) + ":" + o.Reason
}

// Summarize counts applied and skipped outcomes.
func Summarize(outcomes []Outcome) (applied, skipped int) {
	for _, outcome := range outcomes {
		if outcome.Status == StatusApplied {
			applied++
		} else {
			skipped++
		}
	}
	return applied, skipped
}

package registry

import "fmt"

// Outcome describes what happened to one scene during a workflow.
type Outcome string

const (
	// OutcomeAdded means a new bookmark was appended.
	OutcomeAdded Outcome = "added"

	// OutcomeAlreadyRegistered means an existing bookmark already covered the name.
	OutcomeAlreadyRegistered Outcome = "already-registered"

	// OutcomeNotFound means no scene file carried the name.
	OutcomeNotFound Outcome = "not-found"

	// OutcomeAmbiguous means more than one scene file carried the name.
	OutcomeAmbiguous Outcome = "ambiguous"

	// OutcomeOpened means the host switched to the bookmarked scene.
	OutcomeOpened Outcome = "opened"

	// OutcomeAlreadyOpen means the bookmarked scene was already active.
	OutcomeAlreadyOpen Outcome = "already-open"

	// OutcomePruned means the bookmark pointed at a missing file and was removed.
	OutcomePruned Outcome = "pruned"

	// OutcomeRemoved means the bookmark was deleted on request.
	OutcomeRemoved Outcome = "removed"
)

// Diagnostic is the structured result for one scene considered by a
// workflow. Non-fatal conditions such as a failed resolution are reported
// here rather than as errors.
type Diagnostic struct {
	Name    string   `json:"name"`
	Path    string   `json:"path,omitempty"`
	Outcome Outcome  `json:"outcome"`
	Matches []string `json:"matches,omitempty"`
	Message string   `json:"message,omitempty"`
}

// String renders the diagnostic for logs.
func (d Diagnostic) String() string {
	if d.Message != "" {
		return fmt.Sprintf("%s: %s (%s)", d.Name, d.Outcome, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Name, d.Outcome)
}

package ai

import "context"

// ActionHandler executes a read action. It receives the parsed action
// arguments and returns a display-ready result string.
// Write actions do not have handlers here — they are surfaced to the operator
// for confirmation and executed by the application layer afterwards.
type ActionHandler func(ctx context.Context, args ActionArgs) (string, error)

// ActionDefinition describes a single conversational action.
type ActionDefinition struct {
	Name        string
	Description string
	IsRead      bool          // read actions run autonomously; writes need confirmation
	Handler     ActionHandler // non-nil for read actions only
}

// ActionRegistry holds the actions available to the interpreter for a given
// message. The application layer registers them when building chat context.
type ActionRegistry struct {
	actions []ActionDefinition
}

func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{}
}

func (r *ActionRegistry) Register(a ActionDefinition) {
	r.actions = append(r.actions, a)
}

// Get returns the definition for a given action name, and whether it exists.
func (r *ActionRegistry) Get(name string) (ActionDefinition, bool) {
	for _, a := range r.actions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionDefinition{}, false
}

func (r *ActionRegistry) All() []ActionDefinition {
	return r.actions
}

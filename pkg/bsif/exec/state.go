package exec

import "github.com/ormasoftchile/bsif/pkg/bsif/schema"

// Snapshot is the JSON-serializable shape of an Instance. Nothing here
// touches the filesystem; it only marshals/unmarshals the value in
// memory.
type Snapshot struct {
	CurrentState string   `json:"current_state"`
	History      []string `json:"history"`
	Actions      []string `json:"actions"`
}

// Snapshot captures the instance's current fields as a plain value.
func (i *Instance) Snapshot() Snapshot {
	return Snapshot{
		CurrentState: i.currentState,
		History:      i.History(),
		Actions:      i.Actions(),
	}
}

// Restore reconstructs an Instance from a snapshot against sm. The
// resulting instance can continue to Send events normally; it does not
// replay history, it trusts the snapshot.
func Restore(sm schema.StateMachine, snap Snapshot) *Instance {
	return &Instance{
		machine:      sm,
		currentState: snap.CurrentState,
		history:      append([]string(nil), snap.History...),
		actions:      append([]string(nil), snap.Actions...),
	}
}

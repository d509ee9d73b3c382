// Package outcome classifies how a simulated scam call resolved from the
// victim's perspective, folding structured detection-tool signals emitted by
// the dialogue generator.
package outcome

import "github.com/AndrewKaranu/ScamShield/internal/scenario"

// Outcome is the terminal classification of a call session.
type Outcome string

const (
	Ongoing          Outcome = "ongoing"
	VictimDisclosed  Outcome = "victim_disclosed"
	VictimSuspicious Outcome = "victim_suspicious"
	AgentHungUp      Outcome = "agent_hung_up"
)

// Resolve folds a batch of newly observed tool invocation names into the
// current outcome. The fold is monotonic: once the outcome leaves Ongoing it
// never downgrades, and a disclosure outranks suspicion. Callers must apply
// Resolve cumulatively over incremental batches, never recompute from a
// subset of the log.
func Resolve(current Outcome, toolNames []string) Outcome {
	if current == VictimDisclosed {
		return current
	}
	next := current
	if next == "" {
		next = Ongoing
	}
	for _, name := range toolNames {
		switch name {
		case scenario.ToolSensitiveInfo:
			return VictimDisclosed
		case scenario.ToolSuspicion:
			if next != VictimDisclosed {
				next = VictimSuspicious
			}
		}
	}
	return next
}

package teamstate

// Decision is the outcome of §4.8 step 2's resume-vs-fresh logic.
type Decision struct {
	Resume bool
	Reason string
}

// DecideResume implements §4.8 step 2:
//   - --fresh forces fresh.
//   - a config_hash change forces fresh.
//   - fresh also if no teammate has last_active within the staleness window.
//
// previous may be nil (no prior state at all), which is always fresh.
func DecideResume(previous *TeamState, currentConfigHash string, forceFresh bool, staleAfterHours int) Decision {
	if forceFresh {
		return Decision{Resume: false, Reason: "--fresh requested"}
	}
	if previous == nil {
		return Decision{Resume: false, Reason: "no prior team state"}
	}
	if previous.ConfigHash != currentConfigHash {
		return Decision{Resume: false, Reason: "config_hash changed"}
	}
	if previous.IsStale(staleAfterHours) {
		return Decision{Resume: false, Reason: "no teammate active within the staleness window"}
	}
	return Decision{Resume: true, Reason: "config unchanged and at least one teammate is recently active"}
}

// CarryForward builds the next TeamState for a resume, carrying AgentID and LastActive forward
// for teammates that existed before; new/reset teammates start pending with a nil AgentID
// (§4.8 step 6).
func CarryForward(previous *TeamState, resume bool, next *TeamState) {
	if next.Teammates == nil {
		next.Teammates = map[string]TeammateState{}
	}
	for name, tm := range next.Teammates {
		if resume && previous != nil {
			if prior, ok := previous.Teammates[name]; ok {
				tm.AgentID = prior.AgentID
				tm.LastActive = prior.LastActive
				next.Teammates[name] = tm
				continue
			}
		}
		tm.Status = StatusPending
		tm.AgentID = ""
		tm.LastActive = nil
		next.Teammates[name] = tm
	}
}

package recovery

// Action is the coarse training recommendation for a recovery score.
type Action string

const (
	ActionTrain  Action = "train"
	ActionAdjust Action = "adjust"
	ActionRest   Action = "rest"
)

// Recommendation pairs an action with a short coach-style message.
type Recommendation struct {
	Action  Action `json:"action"`
	Message string `json:"message"`
}

// Recommend maps a recovery score onto a training recommendation. The
// breakpoints match the status breakpoints: full training at optimal
// recovery, adjusted programming in the suboptimal band, active rest below.
func Recommend(score int) Recommendation {
	switch {
	case score >= 85:
		return Recommendation{Action: ActionTrain, Message: "Optimal state. Ready to train at full load."}
	case score >= 70:
		return Recommendation{Action: ActionAdjust, Message: "Moderate recovery. Program adjusted to match."}
	default:
		return Recommendation{Action: ActionRest, Message: "Critical fatigue. Active rest recommended."}
	}
}

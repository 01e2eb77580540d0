package model

// EditKind discriminates the supported what-if edit kinds.
type EditKind string

// Supported edit kinds. EditNone is a legal no-op that re-runs the
// pipeline against the unmodified current state.
const (
	EditSwap  EditKind = "SWAP"
	EditAlloc EditKind = "ALLOC"
	EditNone  EditKind = "NONE"
)

// SwapPayload substitutes one roster member for another.
type SwapPayload struct {
	Out string `json:"out"`
	In  string `json:"in"`
}

// AllocDelta perturbs the minute allocation of a single person.
type AllocDelta struct {
	PersonID     string  `json:"person_id"`
	DeltaMinutes float64 `json:"delta_minutes"`
}

// EditCommand is one hypothetical edit applied to a working copy of the
// event set and roster.
type EditCommand struct {
	Kind   EditKind     `json:"input_type"`
	Swap   SwapPayload  `json:"swap,omitempty"`
	Allocs []AllocDelta `json:"allocs,omitempty"`
}

// Prediction is the structured result of one orchestration cycle. It is
// derived fresh on every edit and never persisted on its own.
type Prediction struct {
	KPI           KPIReport `json:"kpi"`
	BestTeam      []string  `json:"best_team"`
	BestTeamScore float64   `json:"best_team_score"`
}

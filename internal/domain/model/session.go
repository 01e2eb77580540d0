package model

// NodeMeta holds per-person display metadata shown by session clients.
type NodeMeta struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	LabelValue float64 `json:"label_value"` // baseline-derived display value
}

// SessionRecord is the persisted workspace state. It is owned exclusively
// by the orchestrator and written only after a fully successful pipeline
// run.
type SessionRecord struct {
	Team    []string            `json:"current_team"`
	Nodes   map[string]NodeMeta `json:"nodes"`
	LastKPI KPIReport           `json:"last_kpi"`
	Meta    map[string]string   `json:"meta"`
}

// Clone returns a deep copy so callers can read a snapshot without
// aliasing orchestrator-owned state.
func (r SessionRecord) Clone() SessionRecord {
	out := r
	out.Team = append([]string(nil), r.Team...)
	out.Nodes = make(map[string]NodeMeta, len(r.Nodes))
	for id, n := range r.Nodes {
		out.Nodes[id] = n
	}
	out.Meta = make(map[string]string, len(r.Meta))
	for k, v := range r.Meta {
		out.Meta[k] = v
	}
	return out
}

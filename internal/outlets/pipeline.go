package outlets

// CanonicalStages is the fixed ordered onboarding pipeline every outlet is
// displayed against, regardless of what the backend returns.
var CanonicalStages = []string{
	"Onboarding",
	"Legal",
	"Documentation",
	"Design",
	"Fabrication",
	"Hiring & Training",
}

// DisplayStage is one slot of the normalized pipeline.
type DisplayStage struct {
	Label      string      `json:"label"`
	Completion float64     `json:"completion"`
	Status     StageStatus `json:"status"`
	Stage      *Stage      `json:"-"`
}

// NormalizeStages maps backend stage data onto the canonical pipeline: one
// display stage per canonical name, in canonical order, with zero-progress
// placeholders for stages the backend has not reached yet. Nil input yields
// the all-placeholder pipeline.
func NormalizeStages(stages []Stage) []DisplayStage {
	byName := make(map[string]*Stage, len(stages))
	for i := range stages {
		byName[stages[i].StageName] = &stages[i]
	}

	out := make([]DisplayStage, 0, len(CanonicalStages))
	for _, label := range CanonicalStages {
		ds := DisplayStage{Label: label}
		if stage, ok := byName[label]; ok {
			ds.Completion = stage.Completion()
			ds.Stage = stage
		}
		ds.Status = StageStatusFor(ds.Completion)
		out = append(out, ds)
	}
	return out
}

// SplitStages partitions backend stages into completed and pending groups
// for the outlet cards, preserving backend order within each group.
func SplitStages(stages []Stage) (completed, pending []Stage) {
	for _, s := range stages {
		if s.IsCompleted {
			completed = append(completed, s)
		} else {
			pending = append(pending, s)
		}
	}
	return completed, pending
}

// FindStage looks up a backend stage by canonical name.
func FindStage(stages []Stage, name string) *Stage {
	for i := range stages {
		if stages[i].StageName == name {
			return &stages[i]
		}
	}
	return nil
}

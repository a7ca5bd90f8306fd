package domain

type Stage string

const (
	StageFetching     Stage = "fetching"
	StageTranscribing Stage = "transcribing"
	StageAnalyzing    Stage = "analyzing"
	StageComplete     Stage = "complete"
)

type Progress struct {
	Stage   Stage  `json:"stage"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// ProgressFunc receives stage events during an ingestion. Passed per call,
// so no progress state is shared between requests. May be nil.
type ProgressFunc func(Progress)

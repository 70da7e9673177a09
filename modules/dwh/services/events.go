package services

import "github.com/iota-uz/freight-dwh/modules/dwh/domain"

// FileProcessed is published after a source file has been fully ingested
// inside its transaction scope.
type FileProcessed struct {
	FileName string
	Source   domain.Source
}

// FileFailed is published when a file's ingestion rolled back.
type FileFailed struct {
	FileName string
	Err      error
}

// RunCompleted is published once per load with the final tallies.
type RunCompleted struct {
	Summary *RunSummary
}

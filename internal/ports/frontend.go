package ports

import (
	"context"

	"github.com/mikey/scamguard/internal/core"
)

// AnalysisRequest is an inbound analysis request from a capture collaborator
type AnalysisRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// AnalysisFrontend defines the interface for surfaces that accept captured
// text and hand back combined analyses
type AnalysisFrontend interface {
	// ProcessText runs one analysis request through the pipeline
	ProcessText(ctx context.Context, req *AnalysisRequest) (*core.StoredAnalysis, error)

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}

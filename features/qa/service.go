// Package qa implements the question answering pipeline: ingest the
// document once, retrieve evidence per question, and answer every
// question in a single generative model call.
package qa

import (
	"context"
	"log/slog"
	"time"

	"askdoc/internal/middleware"
	"askdoc/internal/prompt"
	"askdoc/internal/retrieval"
)

// One generation covers every question in the request, so it gets a
// generous bound.
const generateTimeout = 120 * time.Second

type IngestionGate interface {
	EnsureIndexed(ctx context.Context, sourceURL string) error
}

type Retriever interface {
	RetrieveAll(ctx context.Context, questions []string) (*retrieval.EvidenceSet, error)
}

type Generator interface {
	Complete(ctx context.Context, promptText string) (string, error)
}

type Service struct {
	gate      IngestionGate
	retriever Retriever
	generator Generator
	queryLog  *retrieval.QueryLogger
}

func NewService(gate IngestionGate, retriever Retriever, generator Generator, queryLog *retrieval.QueryLogger) *Service {
	return &Service{gate: gate, retriever: retriever, generator: generator, queryLog: queryLog}
}

// Answer runs the full pipeline for one document and its questions.
// Answers come back in question order. When the model output cannot be
// aligned with the questions, the raw output is returned as a single
// degraded answer rather than failing the request.
func (s *Service) Answer(ctx context.Context, documentURL string, questions []string) ([]string, error) {
	start := time.Now()

	if err := s.gate.EnsureIndexed(ctx, documentURL); err != nil {
		return nil, err
	}

	evidence, err := s.retriever.RetrieveAll(ctx, questions)
	if err != nil {
		return nil, err
	}

	// Without evidence the model has nothing to ground an answer on, so
	// every question gets the fallback sentence and no model call is made.
	if evidence.Len() == 0 {
		slog.WarnContext(ctx, "no evidence retrieved, skipping generation", "questions", len(questions))
		answers := make([]string, len(questions))
		for i := range answers {
			answers[i] = prompt.Sentinel
		}
		s.logRun(ctx, documentURL, questions, 0, len(answers), false, start)
		return answers, nil
	}

	promptText := prompt.Build(evidence.Texts(), questions)

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	output, err := s.generator.Complete(genCtx, promptText)
	cancel()
	if err != nil {
		return nil, err
	}

	answers, aligned := prompt.ParseAnswers(output, len(questions))
	if !aligned {
		slog.WarnContext(ctx, "model output did not align with questions, returning raw output",
			"questions", len(questions), "parsed", len(answers))
	}

	s.logRun(ctx, documentURL, questions, evidence.Len(), len(answers), !aligned, start)
	return answers, nil
}

func (s *Service) logRun(ctx context.Context, documentURL string, questions []string, evidenceCount, answerCount int, degraded bool, start time.Time) {
	if s.queryLog == nil {
		return
	}
	s.queryLog.Log(retrieval.QueryLogEntry{
		Documents:     []string{documentURL},
		Questions:     len(questions),
		EvidenceCount: evidenceCount,
		Answers:       answerCount,
		Degraded:      degraded,
		Duration:      time.Since(start),
		CorrelationID: middleware.GetCorrelationID(ctx),
	})
}

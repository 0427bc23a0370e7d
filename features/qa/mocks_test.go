package qa_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"askdoc/internal/retrieval"
)

type MockGate struct {
	mock.Mock
}

func (m *MockGate) EnsureIndexed(ctx context.Context, sourceURL string) error {
	args := m.Called(ctx, sourceURL)
	return args.Error(0)
}

type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) RetrieveAll(ctx context.Context, questions []string) (*retrieval.EvidenceSet, error) {
	args := m.Called(ctx, questions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retrieval.EvidenceSet), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Complete(ctx context.Context, promptText string) (string, error) {
	args := m.Called(ctx, promptText)
	return args.String(0), args.Error(1)
}

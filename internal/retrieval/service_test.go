package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"askdoc/internal/retrieval"
)

type MockEmbedder struct{ mock.Mock }

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockSearcher struct{ mock.Mock }

func (m *MockSearcher) Search(ctx context.Context, vector []float32, limit int) ([]retrieval.Result, error) {
	args := m.Called(ctx, vector, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]retrieval.Result), args.Error(1)
}

func TestService_RetrieveAll(t *testing.T) {
	t.Run("Merges And Deduplicates Across Questions", func(t *testing.T) {
		e := new(MockEmbedder)
		s := new(MockSearcher)

		e.On("Embed", mock.Anything, "first question").Return([]float32{0.1}, nil).Once()
		e.On("Embed", mock.Anything, "second question").Return([]float32{0.2}, nil).Once()
		s.On("Search", mock.Anything, []float32{0.1}, 5).Return([]retrieval.Result{
			{Text: "chunk A", Score: 0.9},
			{Text: "chunk B", Score: 0.8},
		}, nil).Once()
		s.On("Search", mock.Anything, []float32{0.2}, 5).Return([]retrieval.Result{
			{Text: "chunk B", Score: 0.95},
			{Text: "chunk C", Score: 0.7},
		}, nil).Once()

		svc := retrieval.NewService(e, s, 5)
		evidence, err := svc.RetrieveAll(context.Background(), []string{"first question", "second question"})

		assert.NoError(t, err)
		assert.Equal(t, []string{"chunk A", "chunk B", "chunk C"}, evidence.Texts())
		e.AssertExpectations(t)
		s.AssertExpectations(t)
	})

	t.Run("No Questions", func(t *testing.T) {
		e := new(MockEmbedder)
		s := new(MockSearcher)

		svc := retrieval.NewService(e, s, 5)
		evidence, err := svc.RetrieveAll(context.Background(), nil)

		assert.NoError(t, err)
		assert.Zero(t, evidence.Len())
		e.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
	})

	t.Run("Empty Index", func(t *testing.T) {
		e := new(MockEmbedder)
		s := new(MockSearcher)

		e.On("Embed", mock.Anything, "any question").Return([]float32{0.3}, nil)
		s.On("Search", mock.Anything, []float32{0.3}, 5).Return([]retrieval.Result{}, nil)

		svc := retrieval.NewService(e, s, 5)
		evidence, err := svc.RetrieveAll(context.Background(), []string{"any question"})

		assert.NoError(t, err)
		assert.Zero(t, evidence.Len())
	})

	t.Run("Embedder Error Aborts Run", func(t *testing.T) {
		e := new(MockEmbedder)
		s := new(MockSearcher)

		e.On("Embed", mock.Anything, "first question").Return([]float32{0.1}, nil).Once()
		e.On("Embed", mock.Anything, "second question").Return(nil, errors.New("quota exhausted")).Once()
		s.On("Search", mock.Anything, []float32{0.1}, 5).Return([]retrieval.Result{{Text: "chunk A"}}, nil).Once()

		svc := retrieval.NewService(e, s, 5)
		evidence, err := svc.RetrieveAll(context.Background(), []string{"first question", "second question"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "embed question 2")
		assert.Nil(t, evidence)
	})

	t.Run("Search Error Aborts Run", func(t *testing.T) {
		e := new(MockEmbedder)
		s := new(MockSearcher)

		e.On("Embed", mock.Anything, "first question").Return([]float32{0.1}, nil).Once()
		s.On("Search", mock.Anything, []float32{0.1}, 5).Return(nil, errors.New("index unavailable")).Once()

		svc := retrieval.NewService(e, s, 5)
		evidence, err := svc.RetrieveAll(context.Background(), []string{"first question", "second question"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "search question 1")
		assert.Nil(t, evidence)
		e.AssertNumberOfCalls(t, "Embed", 1)
	})

	t.Run("Top K Passed To Index", func(t *testing.T) {
		e := new(MockEmbedder)
		s := new(MockSearcher)

		e.On("Embed", mock.Anything, "any question").Return([]float32{0.1}, nil)
		s.On("Search", mock.Anything, []float32{0.1}, 3).Return([]retrieval.Result{}, nil)

		svc := retrieval.NewService(e, s, 3)
		_, err := svc.RetrieveAll(context.Background(), []string{"any question"})

		assert.NoError(t, err)
		s.AssertExpectations(t)
	})
}

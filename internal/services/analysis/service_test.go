package analysis

import (
	"context"
	"errors"
	"testing"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
	"taxchain/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAnalysisRepo struct {
	mock.Mock
}

func (m *MockAnalysisRepo) Create(ctx context.Context, analysis *models.RiskAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisRepo) ListByTaxpayer(ctx context.Context, taxpayerID string) ([]models.RiskAnalysis, error) {
	args := m.Called(ctx, taxpayerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RiskAnalysis), args.Error(1)
}

func (m *MockAnalysisRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(t *testing.T, repo repositories.AnalysisRepository) Service {
	t.Helper()
	scorer, err := NewRiskScorer(DefaultScorerConfig())
	require.NoError(t, err)
	return NewService(repo, nil, NewFeatureExtractor(ExtractorConfig{}), scorer, nil)
}

func TestService_Analyze(t *testing.T) {
	filing := models.Filing{
		FilingID:       "FILING_001",
		TaxpayerID:     "TPIN001",
		Income:         50000,
		Deductions:     35000,
		BusinessSector: "retail",
		TaxPeriod:      "2024-Q1",
	}
	history := models.TaxpayerHistory{
		{FilingID: "FILING_000", TaxpayerID: "TPIN001", Income: 48000, Deductions: 30000, BusinessSector: "retail", TaxPeriod: "2023-Q4"},
	}

	t.Run("persists and returns the documented example", func(t *testing.T) {
		svc := newTestService(t, repositories.NewMemoryAnalysisRepository())

		result, err := svc.Analyze(context.Background(), filing, history, models.JSON{"source": "test"})
		require.NoError(t, err)

		assert.Equal(t, models.RiskLevelHigh, result.RiskLevel)
		assert.Contains(t, result.RiskFactors[0], "High deduction ratio")
		assert.InDelta(t, 0.60, result.Confidence, 1e-9)
		assert.NotZero(t, result.ID)

		analyses, err := svc.History(context.Background(), "TPIN001")
		require.NoError(t, err)
		require.Len(t, analyses, 1)
		assert.Equal(t, result.ID, analyses[0].ID)
	})

	t.Run("negative income rejected", func(t *testing.T) {
		svc := newTestService(t, repositories.NewMemoryAnalysisRepository())

		bad := filing
		bad.Income = -1
		_, err := svc.Analyze(context.Background(), bad, nil, nil)
		assert.ErrorIs(t, err, errs.ErrInvalidFiling)
	})

	t.Run("empty history is not an error", func(t *testing.T) {
		svc := newTestService(t, repositories.NewMemoryAnalysisRepository())

		result, err := svc.Analyze(context.Background(), filing, nil, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.50, result.Confidence, 1e-9)
		for _, f := range result.RiskFactors {
			assert.NotContains(t, f, "Income deviation")
		}
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		svc := newTestService(t, repositories.NewMemoryAnalysisRepository())

		first, err := svc.Analyze(context.Background(), filing, history, nil)
		require.NoError(t, err)
		second, err := svc.Analyze(context.Background(), filing, history, nil)
		require.NoError(t, err)

		assert.Equal(t, first.RiskScore, second.RiskScore)
		assert.Equal(t, first.RiskLevel, second.RiskLevel)
		assert.Equal(t, first.RiskFactors, second.RiskFactors)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("persist failure surfaces", func(t *testing.T) {
		repo := new(MockAnalysisRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		svc := newTestService(t, repo)
		_, err := svc.Analyze(context.Background(), filing, nil, nil)
		assert.ErrorContains(t, err, "failed to persist analysis")
		repo.AssertExpectations(t)
	})
}

func TestService_History(t *testing.T) {
	t.Run("unknown taxpayer yields empty slice", func(t *testing.T) {
		svc := newTestService(t, repositories.NewMemoryAnalysisRepository())

		analyses, err := svc.History(context.Background(), "TPIN404")
		require.NoError(t, err)
		assert.Empty(t, analyses)
	})

	t.Run("most recent first", func(t *testing.T) {
		repo := repositories.NewMemoryAnalysisRepository()
		svc := newTestService(t, repo)

		for i, income := range []float64{40000, 42000, 44000} {
			filing := models.Filing{
				FilingID:   string(rune('A' + i)),
				TaxpayerID: "TPIN002",
				Income:     income,
				Deductions: 10000,
			}
			_, err := svc.Analyze(context.Background(), filing, nil, nil)
			require.NoError(t, err)
		}

		analyses, err := svc.History(context.Background(), "TPIN002")
		require.NoError(t, err)
		require.Len(t, analyses, 3)
		assert.Greater(t, analyses[0].ID, analyses[1].ID)
		assert.Greater(t, analyses[1].ID, analyses[2].ID)
	})
}

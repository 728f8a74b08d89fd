package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/labelscan/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockOCREngine is a mock implementation of domain.OCREngine
type MockOCREngine struct {
	text  string
	err   error
	delay time.Duration
	calls int
}

func (m *MockOCREngine) Name() string { return "mock" }

func (m *MockOCREngine) Recognize(ctx context.Context, image []byte) (string, error) {
	m.calls++
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *MockOCREngine) Close() error { return nil }

func TestNewAnalysisService(t *testing.T) {
	t.Run("creates service with default values", func(t *testing.T) {
		svc := NewAnalysisService(&MockOCREngine{}, nil, AnalysisServiceConfig{})
		if svc.ocrTimeout != 60*time.Second {
			t.Errorf("ocrTimeout = %v, want 60s", svc.ocrTimeout)
		}
		if svc.cacheTTL != 24*time.Hour {
			t.Errorf("cacheTTL = %v, want 24h", svc.cacheTTL)
		}
		if svc.cacheEnabled {
			t.Error("expected caching disabled without a cache")
		}
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewAnalysisService(&MockOCREngine{}, NewMockCacheRepository(), AnalysisServiceConfig{
			OCRTimeout:   5 * time.Second,
			CacheTTL:     time.Hour,
			CacheEnabled: true,
		})
		if svc.ocrTimeout != 5*time.Second {
			t.Errorf("ocrTimeout = %v, want 5s", svc.ocrTimeout)
		}
		if svc.cacheTTL != time.Hour {
			t.Errorf("cacheTTL = %v, want 1h", svc.cacheTTL)
		}
		if !svc.cacheEnabled {
			t.Error("expected caching enabled")
		}
		if svc.EngineName() != "mock" {
			t.Errorf("EngineName() = %q, want mock", svc.EngineName())
		}
	})
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	image := []byte("fake-image-bytes")

	t.Run("returns error for empty image", func(t *testing.T) {
		ocr := &MockOCREngine{}
		svc := NewAnalysisService(ocr, nil, AnalysisServiceConfig{})

		_, err := svc.Analyze(ctx, nil)
		if !errors.Is(err, domain.ErrEmptyImage) {
			t.Errorf("error = %v, want ErrEmptyImage", err)
		}
		if ocr.calls != 0 {
			t.Errorf("OCR called %d times, want 0", ocr.calls)
		}
	})

	t.Run("normalizes OCR text before extraction", func(t *testing.T) {
		ocr := &MockOCREngine{text: "Sucres 20 g\nIngrédients: MILK"}
		svc := NewAnalysisService(ocr, nil, AnalysisServiceConfig{})

		analysis, err := svc.Analyze(ctx, image)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := analysis.Facts.Nutrients[domain.Sugar]; !got.Found || got.Value != "20" {
			t.Errorf("Sugar reading = %+v, want 20", got)
		}
		if len(analysis.Facts.Ingredients) != 1 || analysis.Facts.Ingredients[0].Keyword != "milk" {
			t.Errorf("Ingredients = %+v, want milk", analysis.Facts.Ingredients)
		}
		if analysis.Engine != "mock" {
			t.Errorf("Engine = %q, want mock", analysis.Engine)
		}
		if analysis.Text != analysis.Report.String() {
			t.Errorf("Text = %q, want rendered report", analysis.Text)
		}
	})

	t.Run("wraps engine errors as OCR failures", func(t *testing.T) {
		svc := NewAnalysisService(&MockOCREngine{err: errors.New("engine crashed")}, nil, AnalysisServiceConfig{})

		_, err := svc.Analyze(ctx, image)
		if !errors.Is(err, domain.ErrOCRFailed) {
			t.Errorf("error = %v, want ErrOCRFailed", err)
		}
	})

	t.Run("reports timeout when the engine is too slow", func(t *testing.T) {
		ocr := &MockOCREngine{text: "calories100", delay: time.Second}
		svc := NewAnalysisService(ocr, nil, AnalysisServiceConfig{OCRTimeout: 10 * time.Millisecond})

		_, err := svc.Analyze(ctx, image)
		if !errors.Is(err, domain.ErrOCRTimeout) {
			t.Errorf("error = %v, want ErrOCRTimeout", err)
		}
	})

	t.Run("scores an empty label when no text is found", func(t *testing.T) {
		svc := NewAnalysisService(&MockOCREngine{err: domain.ErrNoTextFound}, nil, AnalysisServiceConfig{})

		analysis, err := svc.Analyze(ctx, image)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if analysis.Report.NutritionScore != 50 || analysis.Report.IngredientsScore != 100 {
			t.Errorf("scores = %d/%d, want 50/100", analysis.Report.NutritionScore, analysis.Report.IngredientsScore)
		}
	})

	t.Run("caches report on miss", func(t *testing.T) {
		cache := NewMockCacheRepository()
		svc := NewAnalysisService(&MockOCREngine{text: "calories100"}, cache, AnalysisServiceConfig{CacheEnabled: true})

		analysis, err := svc.Analyze(ctx, image)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cache.setCalled {
			t.Error("expected report to be cached")
		}
		if analysis.Cached {
			t.Error("fresh analysis should not be marked cached")
		}
		if _, ok := cache.data[generateCacheKey(image)]; !ok {
			t.Error("cache entry missing for image key")
		}
	})

	t.Run("returns cached report without running OCR", func(t *testing.T) {
		cache := NewMockCacheRepository()
		ocr := &MockOCREngine{text: "calories100"}
		svc := NewAnalysisService(ocr, cache, AnalysisServiceConfig{CacheEnabled: true})

		first, err := svc.Analyze(ctx, image)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := svc.Analyze(ctx, image)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ocr.calls != 1 {
			t.Errorf("OCR called %d times, want 1", ocr.calls)
		}
		if !second.Cached {
			t.Error("expected second analysis to be marked cached")
		}
		if second.Text != first.Text {
			t.Errorf("cached Text = %q, want %q", second.Text, first.Text)
		}
	})

	t.Run("reads cached report stored as decoded JSON", func(t *testing.T) {
		cache := NewMockCacheRepository()
		ocr := &MockOCREngine{}
		svc := NewAnalysisService(ocr, cache, AnalysisServiceConfig{CacheEnabled: true})

		stored, err := svc.AnalyzeText("Protéines 20 g")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		raw, _ := json.Marshal(stored)
		var asMap map[string]interface{}
		if err := json.Unmarshal(raw, &asMap); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		cache.data[generateCacheKey(image)] = asMap

		analysis, err := svc.Analyze(ctx, image)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ocr.calls != 0 {
			t.Errorf("OCR called %d times, want 0", ocr.calls)
		}
		if analysis.Text != stored.Text {
			t.Errorf("Text = %q, want %q", analysis.Text, stored.Text)
		}
		if got := analysis.Facts.Nutrients[domain.Protein]; got.Value != "20" {
			t.Errorf("Protein = %+v, want 20", got)
		}
	})

	t.Run("cache failures do not fail the request", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.getError = errors.New("cache down")
		cache.setError = errors.New("cache down")
		svc := NewAnalysisService(&MockOCREngine{text: "calories100"}, cache, AnalysisServiceConfig{CacheEnabled: true})

		if _, err := svc.Analyze(ctx, image); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("skips cache when disabled", func(t *testing.T) {
		cache := NewMockCacheRepository()
		svc := NewAnalysisService(&MockOCREngine{text: "calories100"}, cache, AnalysisServiceConfig{})

		if _, err := svc.Analyze(ctx, image); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cache.getCalled || cache.setCalled {
			t.Error("cache should not be touched when disabled")
		}
	})
}

func TestAnalyzeText(t *testing.T) {
	svc := NewAnalysisService(nil, nil, AnalysisServiceConfig{})

	analysis, err := svc.AnalyzeText("Calories 2o00\nIngredients: sulfites")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Engine != "" {
		t.Errorf("Engine = %q, want empty for text input", analysis.Engine)
	}
	if !strings.Contains(analysis.Text, "⚠️   Contains high Calories: 2000 calories") {
		t.Errorf("Text = %q, want calories tip", analysis.Text)
	}
	if !strings.Contains(analysis.Text, "Overall ingredients score: 83%") {
		t.Errorf("Text = %q, want 83%% ingredients score", analysis.Text)
	}
}

func TestGenerateCacheKey(t *testing.T) {
	a := generateCacheKey([]byte("label-a"))
	b := generateCacheKey([]byte("label-b"))

	if a == b {
		t.Error("different images produced the same key")
	}
	if a != generateCacheKey([]byte("label-a")) {
		t.Error("same image produced different keys")
	}
	if !strings.HasPrefix(a, "report:") {
		t.Errorf("key %q missing report: prefix", a)
	}
}

package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/labelscan/backend/internal/domain"
	"github.com/labelscan/backend/internal/logger"
)

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	Catalog            *domain.Catalog
	OCRTimeout         time.Duration
	CacheTTL           time.Duration
	CacheEnabled       bool
	EnableDebugLogging bool
}

// AnalysisService turns a label image into a scored report
type AnalysisService struct {
	ocr          domain.OCREngine
	cache        domain.CacheRepository
	normalizer   *TextNormalizer
	extractor    *FactExtractor
	scorer       *Scorer
	ocrTimeout   time.Duration
	cacheTTL     time.Duration
	cacheEnabled bool
	log          zerolog.Logger
}

// NewAnalysisService creates a new analysis service with dependencies.
// cache may be nil, which disables caching.
func NewAnalysisService(
	ocr domain.OCREngine,
	cache domain.CacheRepository,
	config AnalysisServiceConfig,
) *AnalysisService {
	ocrTimeout := config.OCRTimeout
	if ocrTimeout == 0 {
		ocrTimeout = 60 * time.Second
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &AnalysisService{
		ocr:          ocr,
		cache:        cache,
		normalizer:   NewTextNormalizer(config.EnableDebugLogging),
		extractor:    NewFactExtractor(config.Catalog),
		scorer:       NewScorer(config.Catalog),
		ocrTimeout:   ocrTimeout,
		cacheTTL:     cacheTTL,
		cacheEnabled: config.CacheEnabled && cache != nil,
		log:          logger.WithComponent("analysis"),
	}
}

// EngineName returns the name of the configured OCR engine
func (s *AnalysisService) EngineName() string {
	if s.ocr == nil {
		return ""
	}
	return s.ocr.Name()
}

// Analyze recognizes the label in image and scores it.
// Flow: check cache -> OCR -> normalize -> extract -> score -> cache -> return
func (s *AnalysisService) Analyze(ctx context.Context, image []byte) (*domain.Analysis, error) {
	if len(image) == 0 {
		return nil, domain.ErrEmptyImage
	}
	if s.ocr == nil {
		return nil, fmt.Errorf("%w: no OCR engine configured", domain.ErrOCRFailed)
	}

	start := time.Now()
	cacheKey := generateCacheKey(image)

	if s.cacheEnabled {
		cached, err := s.getFromCache(ctx, cacheKey)
		if err == nil && cached != nil {
			cached.Cached = true
			s.log.Debug().Str("key", cacheKey).Msg("report served from cache")
			return cached, nil
		}
	}

	raw, err := s.recognize(ctx, image)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyze(raw)
	if err != nil {
		return nil, err
	}
	analysis.Engine = s.ocr.Name()
	analysis.Duration = time.Since(start)

	if s.cacheEnabled {
		if err := s.cache.Set(ctx, cacheKey, analysis, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache report")
		}
	}

	s.log.Info().
		Str("engine", analysis.Engine).
		Int("nutrition_score", analysis.Report.NutritionScore).
		Int("ingredients_score", analysis.Report.IngredientsScore).
		Int("tips", len(analysis.Report.Tips)).
		Dur("duration", analysis.Duration).
		Msg("label analyzed")

	return analysis, nil
}

// AnalyzeText scores text that has already been recognized
func (s *AnalysisService) AnalyzeText(raw string) (*domain.Analysis, error) {
	start := time.Now()
	analysis, err := s.analyze(raw)
	if err != nil {
		return nil, err
	}
	analysis.Duration = time.Since(start)
	return analysis, nil
}

func (s *AnalysisService) analyze(raw string) (*domain.Analysis, error) {
	facts := s.extractor.Extract(s.normalizer.Normalize(raw))

	report, err := s.scorer.Score(facts)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	return &domain.Analysis{
		Facts:      facts,
		Report:     report,
		Text:       report.String(),
		AnalyzedAt: time.Now(),
	}, nil
}

// recognize runs the OCR engine under the configured timeout.
// A label with no readable text is scored like one with no known fields.
func (s *AnalysisService) recognize(ctx context.Context, image []byte) (string, error) {
	ocrCtx, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	defer cancel()

	raw, err := s.ocr.Recognize(ocrCtx, image)
	switch {
	case err == nil:
		return raw, nil
	case errors.Is(err, domain.ErrNoTextFound):
		s.log.Info().Str("engine", s.ocr.Name()).Msg("no text recognized, scoring empty label")
		return "", nil
	case errors.Is(ocrCtx.Err(), context.DeadlineExceeded):
		return "", fmt.Errorf("%w after %s: %v", domain.ErrOCRTimeout, s.ocrTimeout, err)
	case errors.Is(err, domain.ErrOCRFailed), errors.Is(err, domain.ErrEmptyImage):
		return "", err
	default:
		return "", fmt.Errorf("%w: %v", domain.ErrOCRFailed, err)
	}
}

// generateCacheKey derives the cache key from the image content.
// Format: "report:{sha256 hex}"
func generateCacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return "report:" + hex.EncodeToString(sum[:])
}

// getFromCache retrieves a stored analysis from cache
func (s *AnalysisService) getFromCache(ctx context.Context, key string) (*domain.Analysis, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if analysis, ok := value.(*domain.Analysis); ok {
		copied := *analysis
		return &copied, nil
	}

	// The memory cache stores values as decoded JSON.
	if dataMap, ok := value.(map[string]interface{}); ok {
		return mapToAnalysis(dataMap)
	}

	return nil, domain.ErrCacheMiss
}

// mapToAnalysis converts a map (from JSON cache) to an Analysis
func mapToAnalysis(data map[string]interface{}) (*domain.Analysis, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}

	var analysis domain.Analysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	return &analysis, nil
}

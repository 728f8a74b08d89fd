// Package ocr provides the OCR engines that turn a label photo into text.
//
// Three engines are available:
//   - tesseract: runs the local tesseract CLI, one process per image
//   - vision: Google Cloud Vision TEXT_DETECTION
//   - rekognition: AWS Rekognition DetectText
//
// Engines return the recognized text unmodified. Cloud engines share a
// token-bucket limiter so bursts of uploads cannot exhaust API quotas.
package ocr

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/labelscan/backend/internal/domain"
)

// Engine names accepted in configuration
const (
	EngineTesseract   = "tesseract"
	EngineVision      = "vision"
	EngineRekognition = "rekognition"
)

// Config selects and configures an OCR engine
type Config struct {
	Engine        string
	Language      string  // tesseract language code, e.g. "eng" or "fra"
	TesseractPath string  // tesseract binary
	RateLimit     float64 // cloud requests per second; 0 disables limiting
	Burst         int
	AWSRegion     string
}

// Engines lists the supported engine names
func Engines() []string {
	return []string{EngineTesseract, EngineVision, EngineRekognition}
}

// New builds the engine named in cfg
func New(ctx context.Context, cfg Config) (domain.OCREngine, error) {
	switch strings.ToLower(cfg.Engine) {
	case "", EngineTesseract:
		return NewTesseractEngine(cfg.TesseractPath, cfg.Language), nil
	case EngineVision:
		return NewVisionEngine(ctx, newLimiter(cfg.RateLimit, cfg.Burst))
	case EngineRekognition:
		return NewRekognitionEngine(ctx, cfg.AWSRegion, newLimiter(cfg.RateLimit, cfg.Burst))
	default:
		return nil, fmt.Errorf("unknown OCR engine %q (want one of %s)", cfg.Engine, strings.Join(Engines(), ", "))
	}
}

// newLimiter returns nil when limiting is disabled
func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// wait blocks on the limiter, if any
func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// checkImage rejects empty payloads before any engine work
func checkImage(engine string, image []byte) error {
	if len(image) == 0 {
		return NewOCRError(engine, "Recognize", domain.ErrEmptyImage, "")
	}
	return nil
}

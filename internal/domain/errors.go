package domain

import "errors"

var (
	// ErrEmptyImage is returned when an analysis request carries no image bytes
	ErrEmptyImage = errors.New("image payload is empty")

	// ErrOCRFailed is returned when the OCR engine cannot process the image
	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrOCRTimeout is returned when the OCR engine does not finish within the configured timeout
	ErrOCRTimeout = errors.New("OCR processing timed out")

	// ErrNoTextFound is returned when the OCR engine recognizes no text at all
	ErrNoTextFound = errors.New("no text recognized in image")

	// ErrInvalidCatalog is returned when extraction or scoring runs without a catalog
	ErrInvalidCatalog = errors.New("nutrient catalog is not configured")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/labelscan/backend/internal/domain"
)

// TesseractEngine runs the tesseract CLI once per image, reading the image
// from stdin and the text from stdout.
type TesseractEngine struct {
	path     string
	language string
}

// NewTesseractEngine creates a tesseract engine. Empty values default to
// "tesseract" on PATH and the "eng" language pack.
func NewTesseractEngine(path, language string) *TesseractEngine {
	if path == "" {
		path = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{path: path, language: language}
}

// Name returns the engine name
func (t *TesseractEngine) Name() string { return EngineTesseract }

// Recognize extracts text from image
func (t *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	const op = "Recognize"
	if err := checkImage(EngineTesseract, image); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, t.path, "stdin", "stdout", "-l", t.language)
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", NewOCRError(EngineTesseract, op, ctxErr, "tesseract interrupted")
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", NewOCRError(EngineTesseract, op, domain.ErrOCRFailed,
				fmt.Sprintf("exit code %d: %s", exitErr.ExitCode(), strings.TrimSpace(stderr.String())))
		}
		return "", NewOCRError(EngineTesseract, op, domain.ErrOCRFailed, err.Error())
	}

	text := stdout.String()
	if strings.TrimSpace(text) == "" {
		return "", NewOCRError(EngineTesseract, op, domain.ErrNoTextFound, "")
	}
	return text, nil
}

// Close is a no-op; each recognition owns its process.
func (t *TesseractEngine) Close() error { return nil }

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/labelscan/backend/internal/domain"
	"github.com/labelscan/backend/internal/infrastructure/ocr"
	"github.com/labelscan/backend/internal/logger"
	"github.com/labelscan/backend/internal/usecase"
)

// newEngine is swapped in tests
var newEngine = ocr.New

type analyzeOptions struct {
	engine     string
	timeout    time.Duration
	jsonOutput bool
	textInput  bool
}

// AnalyzeOutput is the JSON document printed with --json
type AnalyzeOutput struct {
	File             string                 `json:"file"`
	Engine           string                 `json:"engine,omitempty"`
	NutritionScore   int                    `json:"nutrition_score"`
	IngredientsScore int                    `json:"ingredients_score"`
	Tips             []string               `json:"tips"`
	Nutrients        map[string]string      `json:"nutrients"`
	Ingredients      []domain.IngredientHit `json:"ingredients"`
	Duration         string                 `json:"duration"`
}

func newAnalyzeCommand(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [image]",
		Short: "Analyze a nutrition label photo",
		Long: `Recognize the text on a nutrition label photo and print the report.

With --text the file is read as already-recognized label text and no OCR
engine is used.`,
		Example: `  # Analyze a photo with the configured engine
  labelscan analyze label.jpg

  # Use Google Cloud Vision and print JSON
  labelscan analyze label.jpg --engine vision --json

  # Score text that was recognized elsewhere
  labelscan analyze label.txt --text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.engine, "engine", "", "OCR engine: tesseract, vision or rekognition (default from config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "OCR timeout (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.textInput, "text", false, "Treat the input file as recognized text")

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, opts *analyzeOptions, path string) error {
	log := logger.WithComponent("analyze")

	input, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	timeout := opts.timeout
	if timeout <= 0 {
		timeout = a.cfg.OCR.Timeout
	}

	serviceConfig := usecase.AnalysisServiceConfig{
		Catalog:            domain.DefaultCatalog(),
		OCRTimeout:         timeout,
		EnableDebugLogging: a.verbose || a.cfg.OCR.DebugText,
	}

	var analysis *domain.Analysis
	if opts.textInput {
		service := usecase.NewAnalysisService(nil, nil, serviceConfig)
		analysis, err = service.AnalyzeText(string(input))
		if err != nil {
			return err
		}
	} else {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, err := a.openEngine(ctx, opts.engine)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := engine.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("Failed to close OCR engine")
			}
		}()

		service := usecase.NewAnalysisService(engine, nil, serviceConfig)
		analysis, err = service.Analyze(ctx, input)
		if err != nil {
			return err
		}
	}

	log.Debug().
		Str("file", path).
		Int("nutrition_score", analysis.Report.NutritionScore).
		Int("ingredients_score", analysis.Report.IngredientsScore).
		Dur("duration", analysis.Duration).
		Msg("Label analyzed")

	if opts.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), path, analysis)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), analysis.Text)
	return err
}

func (a *app) openEngine(ctx context.Context, name string) (domain.OCREngine, error) {
	if name == "" {
		name = a.cfg.OCR.Engine
	}
	engine, err := newEngine(ctx, ocr.Config{
		Engine:        name,
		Language:      a.cfg.OCR.Language,
		TesseractPath: a.cfg.OCR.TesseractPath,
		RateLimit:     a.cfg.OCR.RateLimit,
		Burst:         a.cfg.OCR.Burst,
		AWSRegion:     a.cfg.OCR.AWSRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}
	return engine, nil
}

func writeJSON(w io.Writer, path string, analysis *domain.Analysis) error {
	nutrients := make(map[string]string)
	for name, reading := range analysis.Facts.Nutrients {
		if reading.Found {
			nutrients[string(name)] = reading.Value
		}
	}

	tips := analysis.Report.Tips
	if tips == nil {
		tips = []string{}
	}
	ingredients := analysis.Facts.Ingredients
	if ingredients == nil {
		ingredients = []domain.IngredientHit{}
	}

	out := AnalyzeOutput{
		File:             path,
		Engine:           analysis.Engine,
		NutritionScore:   analysis.Report.NutritionScore,
		IngredientsScore: analysis.Report.IngredientsScore,
		Tips:             tips,
		Nutrients:        nutrients,
		Ingredients:      ingredients,
		Duration:         analysis.Duration.String(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(out)
}

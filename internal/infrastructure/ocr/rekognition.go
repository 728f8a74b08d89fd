package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"golang.org/x/time/rate"

	"github.com/labelscan/backend/internal/domain"
)

// textDetector is the subset of the Rekognition client the engine uses
type textDetector interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// RekognitionEngine recognizes text with AWS Rekognition DetectText.
// Only LINE detections are kept, in the order AWS returns them.
type RekognitionEngine struct {
	client  textDetector
	limiter *rate.Limiter
}

// NewRekognitionEngine creates a Rekognition engine from the default AWS config chain.
// An empty region falls back to AWS_REGION.
func NewRekognitionEngine(ctx context.Context, region string, limiter *rate.Limiter) (*RekognitionEngine, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, WrapOCRError(EngineRekognition, "NewRekognitionEngine", err, "unable to load AWS config")
	}
	if cfg.Region == "" {
		return nil, NewOCRError(EngineRekognition, "NewRekognitionEngine", domain.ErrOCRFailed, "AWS region not set")
	}

	return newRekognitionEngineWithClient(rekognition.NewFromConfig(cfg), limiter), nil
}

func newRekognitionEngineWithClient(client textDetector, limiter *rate.Limiter) *RekognitionEngine {
	return &RekognitionEngine{client: client, limiter: limiter}
}

// Name returns the engine name
func (r *RekognitionEngine) Name() string { return EngineRekognition }

// Recognize extracts text from image
func (r *RekognitionEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	const op = "Recognize"
	if err := checkImage(EngineRekognition, image); err != nil {
		return "", err
	}
	if err := wait(ctx, r.limiter); err != nil {
		return "", NewOCRError(EngineRekognition, op, err, "rate limiter")
	}

	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", NewOCRError(EngineRekognition, op, ctxErr, "DetectText interrupted")
		}
		return "", NewOCRError(EngineRekognition, op, domain.ErrOCRFailed, fmt.Sprintf("DetectText failed: %v", err))
	}

	var lines []string
	for _, detection := range out.TextDetections {
		if detection.Type != types.TextTypesLine {
			continue
		}
		if line := aws.ToString(detection.DetectedText); line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return "", NewOCRError(EngineRekognition, op, domain.ErrNoTextFound, "")
	}
	return strings.Join(lines, "\n"), nil
}

// Close is a no-op; the AWS client holds no resources that need releasing.
func (r *RekognitionEngine) Close() error { return nil }

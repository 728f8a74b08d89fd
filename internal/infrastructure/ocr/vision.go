package ocr

import (
	"context"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/labelscan/backend/internal/domain"
)

// imageAnnotator is the subset of the Vision client the engine uses
type imageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// VisionEngine recognizes text with Google Cloud Vision TEXT_DETECTION.
type VisionEngine struct {
	client  imageAnnotator
	limiter *rate.Limiter
}

// NewVisionEngine creates a Vision engine with credentials from the environment.
// GOOGLE_CREDENTIALS (inline JSON) wins over GOOGLE_APPLICATION_CREDENTIALS (file);
// without either, application default credentials are tried.
func NewVisionEngine(ctx context.Context, limiter *rate.Limiter) (*VisionEngine, error) {
	const op = "NewVisionEngine"

	var opts []option.ClientOption
	details := "no credentials found in environment"
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		details = "failed to create client with GOOGLE_CREDENTIALS"
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
		details = "failed to create client with GOOGLE_APPLICATION_CREDENTIALS"
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, WrapOCRError(EngineVision, op, err, details)
	}

	return newVisionEngineWithClient(client, limiter), nil
}

func newVisionEngineWithClient(client imageAnnotator, limiter *rate.Limiter) *VisionEngine {
	return &VisionEngine{client: client, limiter: limiter}
}

// Name returns the engine name
func (v *VisionEngine) Name() string { return EngineVision }

// Recognize extracts text from image
func (v *VisionEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	const op = "Recognize"
	if err := checkImage(EngineVision, image); err != nil {
		return "", err
	}
	if err := wait(ctx, v.limiter); err != nil {
		return "", NewOCRError(EngineVision, op, err, "rate limiter")
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", NewOCRError(EngineVision, op, ctxErr, "Vision API call interrupted")
		}
		return "", NewOCRError(EngineVision, op, domain.ErrOCRFailed, "Vision API call failed: "+err.Error())
	}

	if len(resp.GetResponses()) == 0 {
		return "", NewOCRError(EngineVision, op, domain.ErrOCRFailed, "no response from Vision API")
	}

	imageResp := resp.GetResponses()[0]
	if imageResp.GetError() != nil {
		return "", NewOCRError(EngineVision, op, domain.ErrOCRFailed, "Vision API error: "+imageResp.GetError().GetMessage())
	}

	text := imageResp.GetFullTextAnnotation().GetText()
	if text == "" && len(imageResp.GetTextAnnotations()) > 0 {
		// The first annotation spans the whole image.
		text = imageResp.GetTextAnnotations()[0].GetDescription()
	}
	if strings.TrimSpace(text) == "" {
		return "", NewOCRError(EngineVision, op, domain.ErrNoTextFound, "")
	}

	return text, nil
}

// Close closes the underlying Vision client.
func (v *VisionEngine) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}

// Package imagegen implements order 5: prompt JSON in, scene images
// rendered and uploaded to the object store, image URLs written to the
// Scene Store. It is needs-store but not terminal: it enqueues order 6
// (the Terminal Notifier) as its linear successor, the same way every
// other non-terminal step does.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/narraforge/pipeline/internal/clients/objectstore"
	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/platform/logger"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
)

const (
	canvasWidth  = 1024
	canvasHeight = 1024
)

type scenePrompt struct {
	SceneNumber int    `json:"scene_number"`
	Prompt      string `json:"prompt"`
}

type promptResult struct {
	Scenes []scenePrompt `json:"scenes"`
}

type Processor struct {
	bucket   objectstore.BucketService
	log      *logger.Logger
	fontFace font.Face
}

func New(bucket objectstore.BucketService, log *logger.Logger) (*Processor, error) {
	fnt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	face := truetype.NewFace(fnt, &truetype.Options{Size: 28})
	return &Processor{bucket: bucket, log: log.With("processor", "imagegen"), fontFace: face}, nil
}

func (p *Processor) Order() domain.Order { return domain.OrderImageGenerate }
func (p *Processor) NeedsStore() bool    { return true }
func (p *Processor) IsTerminal() bool    { return false }

func (p *Processor) Invoke(ctx context.Context, dbc dbctx.Context, pipelineID, payload string, store registry.StoreHandles) (string, error) {
	var parsed promptResult
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return "", fmt.Errorf("parse prompt json: %w", err)
	}

	for _, scene := range parsed.Scenes {
		imgBytes, err := p.render(scene.Prompt)
		if err != nil {
			return "", fmt.Errorf("render scene %d: %w", scene.SceneNumber, err)
		}

		key := objectstore.SceneImageKey(pipelineID, scene.SceneNumber)
		url, err := p.bucket.Upload(key, imgBytes)
		if err != nil {
			return "", fmt.Errorf("upload scene %d: %w", scene.SceneNumber, err)
		}

		if err := store.Scenes.PutImageURL(dbc, pipelineID, scene.SceneNumber, url); err != nil {
			return "", fmt.Errorf("persist image url for scene %d: %w", scene.SceneNumber, err)
		}
	}

	return "success", nil
}

// render draws the scene's prompt text onto a fixed-size canvas. This
// stands in for an external image-generation model; the PNG bytes it
// produces are real, not mocked, so the
// object-store upload path is exercised end to end.
func (p *Processor) render(prompt string) ([]byte, error) {
	dc := gg.NewContext(canvasWidth, canvasHeight)
	dc.SetRGB(0.95, 0.95, 0.92)
	dc.Clear()
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.SetFontFace(p.fontFace)
	dc.DrawStringWrapped(prompt, canvasWidth/2, canvasHeight/2, 0.5, 0.5, canvasWidth-80, 1.4, gg.AlignCenter)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

package imagegen

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/blog"
)

const promptPreamble = `Generate a beautiful, photorealistic image for a sailing blog article. The image should be:
- Wide format (16:9 aspect ratio)
- %SCENE%
- Bright, coastal colors (ocean blue, white, golden hour light)
- Professional quality, magazine-style photography
- No text overlays`

// Chain tries a sequence of generators until one yields an image. The primary
// generator gets a second attempt with a simplified prompt before the chain
// advances. A deterministic placeholder terminates the chain, so Acquire
// always returns an image.
type Chain struct {
	primary   blog.ImageGenerator
	fallbacks []blog.ImageGenerator
	logger    *zap.Logger
}

// NewChain builds a chain. primary may be nil when no key is configured; nil
// fallbacks are skipped.
func NewChain(primary blog.ImageGenerator, fallbacks []blog.ImageGenerator, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{primary: primary, fallbacks: fallbacks, logger: logger}
}

func fullPrompt(scene string) string {
	return strings.Replace(promptPreamble, "%SCENE%", scene, 1)
}

func simplifiedPrompt(scene string) string {
	return "Photorealistic wide-format sailing photograph: " + scene + ". No text."
}

// Acquire runs the fallback chain for the given scene description. Failures
// are logged and advance the chain; the placeholder tail cannot fail.
func (c *Chain) Acquire(ctx context.Context, scene string) blog.Image {
	type attempt struct {
		gen    blog.ImageGenerator
		prompt string
	}
	var attempts []attempt
	if c.primary != nil {
		attempts = append(attempts,
			attempt{c.primary, fullPrompt(scene)},
			attempt{c.primary, simplifiedPrompt(scene)},
		)
	}
	for _, g := range c.fallbacks {
		if g == nil {
			continue
		}
		attempts = append(attempts, attempt{g, fullPrompt(scene)})
	}

	for _, a := range attempts {
		img, err := a.gen.Generate(ctx, a.prompt)
		if err != nil {
			c.logger.Warn("image generation failed",
				zap.String("generator", a.gen.Name()),
				zap.Error(err))
			continue
		}
		if len(img.Data) == 0 {
			c.logger.Warn("image generator returned empty image",
				zap.String("generator", a.gen.Name()))
			continue
		}
		c.logger.Info("hero image acquired", zap.String("generator", a.gen.Name()))
		return img
	}

	c.logger.Warn("all image generators failed, using placeholder")
	img, _ := Placeholder{}.Generate(ctx, scene)
	return img
}

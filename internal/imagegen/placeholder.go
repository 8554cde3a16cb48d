package imagegen

import (
	"context"

	"github.com/nichtagentur/blogforge/internal/blog"
)

// placeholderSVG is a fixed coastal gradient with wave and sail ornaments,
// used when every generator in the chain fails.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1600" height="900" viewBox="0 0 1600 900">
  <defs>
    <linearGradient id="g" x1="0%" y1="0%" x2="100%" y2="100%">
      <stop offset="0%" style="stop-color:#0077b6"/>
      <stop offset="50%" style="stop-color:#00b4d8"/>
      <stop offset="100%" style="stop-color:#90e0ef"/>
    </linearGradient>
  </defs>
  <rect width="1600" height="900" fill="url(#g)"/>
  <circle cx="1300" cy="200" r="80" fill="#f4e8c1" opacity="0.6"/>
  <path d="M200 700 Q400 500 600 650 Q800 800 1000 600 Q1200 400 1400 550 L1600 650 L1600 900 L0 900 L0 750 Z" fill="rgba(255,255,255,0.15)"/>
  <path d="M0 800 Q200 700 400 780 Q600 860 800 750 Q1000 640 1200 730 Q1400 820 1600 760 L1600 900 L0 900 Z" fill="rgba(255,255,255,0.1)"/>
  <path d="M700 350 L700 650 M700 350 C700 350 850 400 850 500 L700 500" fill="none" stroke="rgba(255,255,255,0.4)" stroke-width="4"/>
</svg>`

// Placeholder returns a deterministic SVG image. It never fails.
type Placeholder struct{}

// Name identifies the generator in logs.
func (Placeholder) Name() string { return "placeholder" }

// Generate returns the fixed placeholder artwork regardless of prompt.
func (Placeholder) Generate(_ context.Context, _ string) (blog.Image, error) {
	return blog.Image{Data: []byte(placeholderSVG), ContentType: "image/svg+xml"}, nil
}

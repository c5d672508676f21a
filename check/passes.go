package check

import (
	"fmt"

	"github.com/tsawler/preflight/config"
	"github.com/tsawler/preflight/contentstream"
	"github.com/tsawler/preflight/model"
)

// Pass inspects one page at a time. Check must not modify the page.
type Pass interface {
	Name() string
	Kind() model.IssueKind
	Check(page *model.Page, f *Findings)
}

// Passes returns the five passes configured for profile, in run order.
func Passes(profile config.Profile) []Pass {
	return []Pass{
		Orientation{},
		Margin{Profile: profile},
		FontSize{Min: profile.MinFontSize, Max: profile.MaxFontSize},
		Resolution{MinDPI: profile.MinResolution, Bleed: profile.Bleed},
		Transparency{},
	}
}

// Orientation flags landscape pages.
type Orientation struct{}

func (Orientation) Name() string          { return "orientation" }
func (Orientation) Kind() model.IssueKind { return model.IssueOrientation }

func (o Orientation) Check(page *model.Page, f *Findings) {
	if page.GeometryErr != nil {
		f.Warn(page.Number, model.WarnMalformedGeometry, skipped(o, page.GeometryErr))
		return
	}
	if page.MediaBox.IsLandscape() {
		f.Add(model.LandscapeIssue(page.Number))
	}
}

// Margin flags pages whose width is outside [PageWidth-MinMargin,
// PageWidth+MaxMargin] or whose height is outside the same band around
// PageHeight. Bounds are inclusive.
type Margin struct {
	Profile config.Profile
}

func (Margin) Name() string          { return "margin" }
func (Margin) Kind() model.IssueKind { return model.IssueMargin }

func (m Margin) Check(page *model.Page, f *Findings) {
	if page.GeometryErr != nil {
		f.Warn(page.Number, model.WarnMalformedGeometry, skipped(m, page.GeometryErr))
		return
	}
	p := m.Profile
	if !within(page.Width(), p.PageWidth-p.MinMargin, p.PageWidth+p.MaxMargin) ||
		!within(page.Height(), p.PageHeight-p.MinMargin, p.PageHeight+p.MaxMargin) {
		f.Add(model.MarginIssue(page.Number))
	}
}

// FontSize flags every font size selection outside [Min, Max], one issue
// per occurrence.
type FontSize struct {
	Min, Max float64
}

func (FontSize) Name() string          { return "font size" }
func (FontSize) Kind() model.IssueKind { return model.IssueFontSize }

func (fs FontSize) Check(page *model.Page, f *Findings) {
	if page.ContentErr != nil {
		f.Warn(page.Number, model.WarnContentDecode, skipped(fs, page.ContentErr))
		return
	}
	for _, size := range contentstream.FontSizes(page.Content) {
		if !within(size, fs.Min, fs.Max) {
			f.Add(model.FontSizeIssue(page.Number))
		}
	}
}

// Resolution flags every image whose effective DPI is below MinDPI. Images
// that could not be read from the page resources are not rated.
type Resolution struct {
	MinDPI float64
	Bleed  float64
}

func (Resolution) Name() string          { return "resolution" }
func (Resolution) Kind() model.IssueKind { return model.IssueImageResolution }

func (r Resolution) Check(page *model.Page, f *Findings) {
	if page.ResourcesErr != nil {
		f.Warn(page.Number, model.WarnResources, incomplete(r, page.ResourcesErr))
	}
	images := page.Images()
	if len(images) == 0 {
		return
	}
	if page.GeometryErr != nil {
		f.Warn(page.Number, model.WarnMalformedGeometry, skipped(r, page.GeometryErr))
		return
	}
	for _, img := range images {
		dpi, err := EffectiveDPI(img, page.MediaBox, r.Bleed)
		if err != nil {
			f.Warn(page.Number, model.WarnMalformedGeometry, skipped(r, err))
			return
		}
		if dpi < r.MinDPI {
			f.Add(model.ImageResolutionIssue(page.Number, r.MinDPI))
		}
	}
}

// EffectiveDPI returns the larger of the horizontal and vertical resolution
// of img when scaled to the media box less bleed.
func EffectiveDPI(img model.XObject, media model.Rect, bleed float64) (float64, error) {
	w := media.Width() - bleed
	h := media.Height() - bleed
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("%w: media box %s leaves no area after %g pt bleed", model.ErrMalformedGeometry, media, bleed)
	}
	return max(float64(img.Width)/w*72, float64(img.Height)/h*72), nil
}

// Transparency flags every transparency group, one issue per group.
// Groups that could not be read from the page resources are not counted.
type Transparency struct{}

func (Transparency) Name() string          { return "transparency" }
func (Transparency) Kind() model.IssueKind { return model.IssueTransparency }

func (t Transparency) Check(page *model.Page, f *Findings) {
	if page.ResourcesErr != nil {
		f.Warn(page.Number, model.WarnResources, incomplete(t, page.ResourcesErr))
	}
	for range page.TransparencyGroups() {
		f.Add(model.TransparencyIssue(page.Number))
	}
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func skipped(p Pass, err error) error {
	return fmt.Errorf("%s check skipped: %w", p.Name(), err)
}

func incomplete(p Pass, err error) error {
	return fmt.Errorf("%s check incomplete: %w", p.Name(), err)
}

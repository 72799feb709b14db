package filter

import (
	"context"

	"github.com/osa030/19guess/internal/domain/track"
)

// PreviewRequiredFilter keeps only tracks with a preview clip, for parties
// that listen through the clip rather than the full track.
type PreviewRequiredFilter struct{}

func (f *PreviewRequiredFilter) Name() string {
	return "preview_required_filter"
}

func (f *PreviewRequiredFilter) Description() string {
	return "Rejects tracks that have no preview clip"
}

func (f *PreviewRequiredFilter) ReturnCodes() []string {
	return []string{"missing_preview"}
}

func (f *PreviewRequiredFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *PreviewRequiredFilter) Check(ctx context.Context, t track.Track, pool Pool) Result {
	if !t.HasPreview() {
		return Reject("missing_preview")
	}
	return Accept()
}

func init() {
	Register("preview_required_filter", func() Filter {
		return &PreviewRequiredFilter{}
	})
}

package score

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/hltran/product-scout/pkg/types"
)

// IDSource generates fallback product identifiers for records that carry
// neither an explicit ID nor a usable URL. Injectable so tests can supply
// a deterministic source.
type IDSource interface {
	ProductID() string
}

// ClockIDSource synthesizes identifiers from wall-clock time plus a
// random suffix. Identifiers are stable within a run but not reproducible
// across runs.
type ClockIDSource struct {
	nowFunc func() time.Time
}

// ClockIDSourceOption configures the ClockIDSource.
type ClockIDSourceOption func(*ClockIDSource)

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) ClockIDSourceOption {
	return func(s *ClockIDSource) {
		s.nowFunc = f
	}
}

// NewClockIDSource creates the default identifier source.
func NewClockIDSource(opts ...ClockIDSourceOption) *ClockIDSource {
	s := &ClockIDSource{nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProductID returns a "{unix-millis}_{random-suffix}" identifier.
func (s *ClockIDSource) ProductID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%d_%s", s.nowFunc().UnixMilli(), suffix)
}

// productID resolves the identifier for a scored product: the explicit
// ID, else the trailing path segment of the product URL, else a
// synthesized fallback.
func (s *Scorer) productID(p *domain.RawProduct) string {
	if p.ID != "" {
		return p.ID
	}
	if seg := trailingSegment(p.URL); seg != "" {
		return seg
	}
	return s.ids.ProductID()
}

func trailingSegment(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	trimmed := strings.TrimRight(rawURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

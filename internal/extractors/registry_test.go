package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

// fakeExtractor is a configurable test double for TextExtractor.
type fakeExtractor struct {
	mimeTypes []string
	priority  int
	text      string
	err       error
	calls     int
}

func (f *fakeExtractor) SupportedMIMETypes() []string {
	return f.mimeTypes
}

func (f *fakeExtractor) Priority() int {
	return f.priority
}

func (f *fakeExtractor) Extract(_ context.Context, raw *domain.RawPaper) (*domain.Extraction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	text := f.text
	if text == "" {
		text = string(raw.Content)
	}
	return &domain.Extraction{Text: text}, nil
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	require.NotNil(t, registry)
	assert.Empty(t, registry.SupportedMIMETypes())
}

func TestRegistry_Extract_DispatchesByMIMEType(t *testing.T) {
	pdfExtractor := &fakeExtractor{mimeTypes: []string{"application/pdf"}, priority: 50, text: "pdf text"}
	textExtractor := &fakeExtractor{mimeTypes: []string{"text/plain"}, priority: 5, text: "plain text"}
	registry := NewRegistry(pdfExtractor, textExtractor)

	result, err := registry.Extract(context.Background(), &domain.RawPaper{
		Key:      "corpus/paper.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4"),
	})

	require.NoError(t, err)
	assert.Equal(t, "pdf text", result.Text)
	assert.Equal(t, 1, pdfExtractor.calls)
	assert.Equal(t, 0, textExtractor.calls)
}

func TestRegistry_Extract_HighestPriorityWins(t *testing.T) {
	low := &fakeExtractor{mimeTypes: []string{"text/plain"}, priority: 5, text: "low"}
	high := &fakeExtractor{mimeTypes: []string{"text/plain"}, priority: 50, text: "high"}
	registry := NewRegistry(low, high)

	result, err := registry.Extract(context.Background(), &domain.RawPaper{
		MIMEType: "text/plain",
		Content:  []byte("content"),
	})

	require.NoError(t, err)
	assert.Equal(t, "high", result.Text)
	assert.Equal(t, 0, low.calls)
}

func TestRegistry_Extract_RegistrationOrderBreaksTies(t *testing.T) {
	first := &fakeExtractor{mimeTypes: []string{"text/plain"}, priority: 5, text: "first"}
	second := &fakeExtractor{mimeTypes: []string{"text/plain"}, priority: 5, text: "second"}
	registry := NewRegistry(first, second)

	result, err := registry.Extract(context.Background(), &domain.RawPaper{
		MIMEType: "text/plain",
		Content:  []byte("content"),
	})

	require.NoError(t, err)
	assert.Equal(t, "first", result.Text)
}

func TestRegistry_Extract_UnsupportedType(t *testing.T) {
	registry := NewRegistry(&fakeExtractor{mimeTypes: []string{"application/pdf"}, priority: 50})

	_, err := registry.Extract(context.Background(), &domain.RawPaper{
		MIMEType: "application/msword",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "application/msword")
}

func TestRegistry_Extract_NilPaper(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Extract(context.Background(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_SupportedMIMETypes_SortedAndDeduplicated(t *testing.T) {
	registry := NewRegistry(
		&fakeExtractor{mimeTypes: []string{"text/plain", "text/markdown"}, priority: 5},
		&fakeExtractor{mimeTypes: []string{"application/pdf", "text/plain"}, priority: 50},
	)

	types := registry.SupportedMIMETypes()

	assert.Equal(t, []string{"application/pdf", "text/markdown", "text/plain"}, types)
}

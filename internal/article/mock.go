package article

import "context"

type mockExtractor struct{}

// NewMockExtractor returns canned article content for local development.
func NewMockExtractor() Extractor { return &mockExtractor{} }

func (m *mockExtractor) Extract(ctx context.Context, url string) (Article, error) {
	return Article{
		URL:   url,
		Title: "The Quiet Rise of Small Language Models",
		Text: "Small language models are finding their way into production systems " +
			"where latency and cost matter more than raw capability. Teams report " +
			"that a well-tuned compact model handles narrow tasks with a fraction " +
			"of the serving bill.\n\nThe trade-off is breadth. Compact models fall " +
			"over outside their tuned domain, so routing between small and large " +
			"models has become its own engineering discipline.",
	}, nil
}

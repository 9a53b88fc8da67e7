package models

import "strings"

// PortfolioInputKind tags how portfolio material was supplied.
type PortfolioInputKind string

const (
	PortfolioExtractedText PortfolioInputKind = "extracted_text"
	PortfolioExternalLink  PortfolioInputKind = "external_link"
)

// PortfolioInput is the tagged source of a portfolio submission: either text
// extracted from an uploaded PDF or a link to an externally hosted portfolio.
// Exactly one of Text/URL is set, which the constructors enforce.
type PortfolioInput struct {
	Kind PortfolioInputKind
	Text string
	URL  string
}

func NewPortfolioText(text string) PortfolioInput {
	return PortfolioInput{Kind: PortfolioExtractedText, Text: text}
}

// NewPortfolioLink normalizes a bare host to an http URL, matching how users
// paste links without a scheme.
func NewPortfolioLink(url string) PortfolioInput {
	url = strings.TrimSpace(url)
	if url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	return PortfolioInput{Kind: PortfolioExternalLink, URL: url}
}

func (p PortfolioInput) Empty() bool {
	switch p.Kind {
	case PortfolioExtractedText:
		return strings.TrimSpace(p.Text) == ""
	case PortfolioExternalLink:
		return strings.TrimSpace(p.URL) == ""
	}
	return true
}

// Content renders the input as the structured content a portfolio revision
// starts from. The generated summary is added by the orchestrator after the
// generator runs.
func (p PortfolioInput) Content() StructuredContent {
	switch p.Kind {
	case PortfolioExtractedText:
		return StructuredContent{"extracted_text": p.Text}
	case PortfolioExternalLink:
		return StructuredContent{"portfolio_url": p.URL}
	}
	return StructuredContent{}
}

// RawText is the embedding-projection text used before a summary exists.
func (p PortfolioInput) RawText() string {
	if p.Kind == PortfolioExternalLink {
		return p.URL
	}
	return p.Text
}

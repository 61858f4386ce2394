package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// defaultMaxPageBytes caps how much of a response body is parsed.
const defaultMaxPageBytes = 8 << 20

// Headings that never carry article content.
var skippedSections = map[string]struct{}{
	"references":     {},
	"external links": {},
	"see also":       {},
	"contents":       {},
	"notes":          {},
}

// WikipediaScraper fetches a Wikipedia article and extracts its readable parts.
type WikipediaScraper struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewWikipediaScraper builds a scraper from config. A nil httpClient gets one
// with the configured timeout.
func NewWikipediaScraper(cfg config.ScraperConfig, httpClient *http.Client) *WikipediaScraper {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	maxBytes := cfg.MaxPageBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxPageBytes
	}
	return &WikipediaScraper{httpClient: httpClient, userAgent: cfg.UserAgent, maxBytes: maxBytes}
}

// Scrape implements domain.ArticleScraper.
func (s *WikipediaScraper) Scrape(ctx context.Context, url string) (*domain.Article, error) {
	l := logger.Get()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewScrapeError(err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		l.Warn("Wikipedia request failed", zap.String("url", url), zap.Error(err))
		return nil, domain.NewScrapeError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.Warn("Wikipedia returned non-200 status", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return nil, domain.NewScrapeError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, domain.NewScrapeError(fmt.Errorf("parse html: %w", err))
	}

	article := ExtractArticle(doc)
	article.URL = url
	if article.Title == "" {
		return nil, domain.NewScrapeError(fmt.Errorf("page has no title heading"))
	}

	l.Debug("Scraped article",
		zap.String("url", url),
		zap.String("title", article.Title),
		zap.Int("sections", len(article.Sections)),
		zap.Int("text_chars", len(article.Text)))
	return article, nil
}

// ExtractArticle reads the title, lead paragraph, section headings and body
// text from a parsed Wikipedia page.
func ExtractArticle(doc *goquery.Document) *domain.Article {
	article := &domain.Article{
		Title: cleanText(doc.Find("h1").First().Text()),
	}

	var paragraphs []string
	doc.Find("div#mw-content-text p").Each(func(_ int, p *goquery.Selection) {
		if text := cleanText(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		article.Summary = paragraphs[0]
	}
	article.Text = strings.Join(paragraphs, " ")

	doc.Find("h2, h3").Each(func(_ int, h *goquery.Selection) {
		// Older skins wrap the heading text in span.mw-headline next to edit links.
		text := cleanText(h.Find("span.mw-headline").First().Text())
		if text == "" {
			text = cleanText(h.Text())
		}
		if text == "" {
			return
		}
		if _, skip := skippedSections[strings.ToLower(text)]; skip {
			return
		}
		article.Sections = append(article.Sections, text)
	})

	return article
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var _ domain.ArticleScraper = (*WikipediaScraper)(nil)

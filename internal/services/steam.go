package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"playcheck/internal/models"
)

const (
	searchResultSelector = ".search_result_row"
	minimumSelector      = ".game_area_sys_req_leftCol"
	recommendedSelector  = ".game_area_sys_req_rightCol"

	maxPageBytes = 5 << 20
)

// SteamService scrapes system requirements from the Steam store.
type SteamService struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

func NewSteamService(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger) *SteamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SteamService{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		logger:     logger,
	}
}

// FetchRequirements resolves a game title to its store page and extracts the
// minimum and recommended requirement blocks. Failures are returned as the
// error variant of the result, never as a Go error.
func (s *SteamService) FetchRequirements(ctx context.Context, gameName string) models.RequirementResult {
	searchURL := s.baseURL + "/search/?term=" + url.QueryEscape(gameName)

	searchDoc, err := s.fetchDocument(ctx, searchURL)
	if err != nil {
		s.logger.Warn("steam search failed", "game", gameName, "error", err)
		return models.RequirementsFailed(err.Error())
	}

	row := searchDoc.Find(searchResultSelector).First()
	if row.Length() == 0 {
		s.logger.Info("steam search returned no results", "game", gameName)
		return models.RequirementsFailed(models.ErrGameNotFound)
	}
	href, ok := row.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		s.logger.Warn("steam search result has no link", "game", gameName)
		return models.RequirementsFailed(models.ErrResultWithoutLink)
	}

	gameURL, err := productURL(searchURL, href)
	if err != nil {
		return models.RequirementsFailed(err.Error())
	}

	gameDoc, err := s.fetchDocument(ctx, gameURL)
	if err != nil {
		s.logger.Warn("steam product page failed", "game", gameName, "url", gameURL, "error", err)
		return models.RequirementsFailed(err.Error())
	}

	s.logger.Debug("steam requirements fetched", "game", gameName, "url", gameURL)

	return models.RequirementsFound(models.Requirements{
		Game:        gameName,
		SourceURL:   gameURL,
		Minimum:     blockText(gameDoc.Find(minimumSelector).First()),
		Recommended: blockText(gameDoc.Find(recommendedSelector).First()),
	})
}

func (s *SteamService) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: http status %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// productURL resolves a search-result link against the search page and drops
// its query string (Steam appends tracking parameters).
func productURL(searchURL, href string) (string, error) {
	base, err := url.Parse(searchURL)
	if err != nil {
		return "", fmt.Errorf("invalid search url: %w", err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid result link %q: %w", href, err)
	}

	u := base.ResolveReference(ref)
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	return u.String(), nil
}

func blockText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return models.FieldNotFound
	}
	return visibleText(sel)
}

// visibleText joins every non-blank text node under sel with newlines, each
// trimmed. Markup, scripts, styles and comments are dropped.
func visibleText(sel *goquery.Selection) string {
	var lines []string
	for _, n := range sel.Nodes {
		collectText(n, &lines)
	}
	return strings.Join(lines, "\n")
}

func collectText(n *html.Node, lines *[]string) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			*lines = append(*lines, t)
		}
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}

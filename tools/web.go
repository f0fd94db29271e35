package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	maxPageChars = 8000
	maxPageBytes = 4 << 20
)

var spaceRe = regexp.MustCompile(`\s+`)

// FetchPage returns a tool that downloads an HTML page and returns its readable text.
// A nil client uses a client with a 20 second timeout.
func FetchPage(client *http.Client) *Tool {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return Must(New(
		"fetch_page",
		"Download a web page and return its title and readable text (headings, paragraphs, lists, code).",
		[]Param{{Name: "url", Type: String, Description: "Absolute http(s) URL of the page"}},
		Func(func(ctx context.Context, args Args) (any, error) {
			url, err := args.String("url")
			if err != nil {
				return nil, err
			}
			if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
				return nil, fmt.Errorf("unsupported url %q", url)
			}
			return fetchText(ctx, client, url)
		}),
	))
}

func fetchText(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	text, err := PageText(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return truncateText(text, maxPageChars), nil
}

// truncateText cuts s to at most n bytes without splitting a rune.
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "\n...(truncated)"
}

// PageText parses an HTML document and returns its title followed by one line per
// heading, paragraph, list item and code block.
func PageText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	var title string
	var lines []string
	collectText(doc, &title, &lines)

	var sb strings.Builder
	if title != "" {
		sb.WriteString("# " + title + "\n")
	}
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

func collectText(n *html.Node, title *string, lines *[]string) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		case "title":
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				*title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if text := nodeText(n); text != "" {
				*lines = append(*lines, "## "+text)
			}
			return
		case "p":
			if text := nodeText(n); text != "" {
				*lines = append(*lines, text)
			}
			return
		case "li":
			if text := nodeText(n); text != "" {
				*lines = append(*lines, "- "+text)
			}
			return
		case "pre":
			if text := nodeText(n); text != "" {
				*lines = append(*lines, "```\n"+text+"\n```")
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, title, lines)
	}
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return spaceRe.ReplaceAllString(strings.TrimSpace(sb.String()), " ")
}

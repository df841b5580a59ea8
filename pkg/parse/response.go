package parse

import (
	"bufio"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"octane-crawler/pkg/utils"
)

// ResponseInfo is what the crawler records about a raw HTTP response
type ResponseInfo struct {
	StatusCode  int
	Status      string
	ContentType string
	Title       string
}

// InspectResponse parses the status line and headers of a raw HTTP/1.x response and,
// for HTML bodies, the document title. Link extraction does not depend on it: the raw
// text is scanned whether or not this succeeds. When only the body fails to parse, the
// returned info still carries the status and content type.
func InspectResponse(raw string) (ResponseInfo, error) {
	var info ResponseInfo

	resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader(raw)), nil)
	if err != nil {
		return info, fmt.Errorf("%w: HTTP response head: %w", utils.ErrParsing, err)
	}
	defer resp.Body.Close()

	info.StatusCode = resp.StatusCode
	info.Status = resp.Status
	info.ContentType = resp.Header.Get("Content-Type")

	if info.ContentType != "" && !strings.Contains(strings.ToLower(info.ContentType), "html") {
		return info, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return info, fmt.Errorf("%w: HTML body: %w", utils.ErrParsing, err)
	}
	info.Title = strings.TrimSpace(doc.Find("title").First().Text())
	return info, nil
}

// IsSuccess reports a 2xx status
func (ri ResponseInfo) IsSuccess() bool {
	return ri.StatusCode >= 200 && ri.StatusCode < 300
}

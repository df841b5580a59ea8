package process

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"octane-crawler/pkg/utils"
)

// Pass names, used in logs and results
const (
	PassQuotedAttribute = "quoted-attribute"
	PassFullAnchor      = "full-anchor"
)

var (
	// <a href = "..."  or  <a href = '...'
	quotedHrefRe = regexp.MustCompile(`(?i)<a\s+href\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	// <a href = EXPR>text</a>, EXPR being anything up to the closing '>'
	fullAnchorRe = regexp.MustCompile(`(?i)<a\s+href\s*=\s*([^>]*)\s*>([^<]*)</a>`)

	lineBreakStripper = strings.NewReplacer("\r", "", "\n", "")
)

// extractionPass is one pattern run over the cleaned response text
type extractionPass struct {
	name    string
	re      *regexp.Regexp
	capture func(text string, loc []int) string
}

// ExtractionResult is the outcome of one pass: either a lazy sequence of non-empty
// hrefs in document order, or Err explaining why the pass produced nothing
type ExtractionResult struct {
	Pass  string
	Hrefs iter.Seq[string]
	Err   error
}

// LinkExtractor finds raw href candidates in a raw HTTP response
type LinkExtractor struct {
	passes       []extractionPass
	maxScanBytes int // 0 = unlimited
	log          *logrus.Entry
}

// NewLinkExtractor creates a LinkExtractor running the quoted-attribute pass followed by
// the full-anchor pass
func NewLinkExtractor(maxScanBytes int, log *logrus.Entry) *LinkExtractor {
	return &LinkExtractor{
		passes: []extractionPass{
			{name: PassQuotedAttribute, re: quotedHrefRe, capture: captureQuoted},
			{name: PassFullAnchor, re: fullAnchorRe, capture: captureAnchorExpr},
		},
		maxScanBytes: maxScanBytes,
		log:          log,
	}
}

// Extract strips line breaks from raw and returns one result per pass, in pass order.
// Overlapping markup is reported by both passes; nothing is deduplicated.
func (le *LinkExtractor) Extract(raw string) []ExtractionResult {
	cleaned := lineBreakStripper.Replace(raw)

	results := make([]ExtractionResult, 0, len(le.passes))
	for _, pass := range le.passes {
		result := ExtractionResult{Pass: pass.name}
		if le.maxScanBytes > 0 && len(cleaned) > le.maxScanBytes {
			result.Err = fmt.Errorf("%w: %s pass: %d bytes exceeds scan limit of %d",
				utils.ErrExtraction, pass.name, len(cleaned), le.maxScanBytes)
			result.Hrefs = emptySeq
			le.log.WithField("pass", pass.name).Warn(result.Err)
		} else {
			result.Hrefs = pass.scan(cleaned)
		}
		results = append(results, result)
	}
	return results
}

// scan yields each non-empty capture lazily; matching resumes after the previous match
func (p extractionPass) scan(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := text
		for len(rest) > 0 {
			loc := p.re.FindStringSubmatchIndex(rest)
			if loc == nil {
				return
			}
			href := p.capture(rest, loc)
			advance := loc[1]
			if advance == 0 {
				advance = 1
			}
			rest = rest[advance:]
			if href == "" {
				continue
			}
			if !yield(href) {
				return
			}
		}
	}
}

func emptySeq(func(string) bool) {}

// captureQuoted returns whichever of the double- or single-quoted groups matched
func captureQuoted(text string, loc []int) string {
	if loc[2] >= 0 {
		return text[loc[2]:loc[3]]
	}
	if loc[4] >= 0 {
		return text[loc[4]:loc[5]]
	}
	return ""
}

// captureAnchorExpr returns the href expression of a full anchor with its quoting removed
func captureAnchorExpr(text string, loc []int) string {
	return unquoteHref(text[loc[2]:loc[3]])
}

// unquoteHref reduces an attribute expression to its value: the contents of a leading
// quoted string, or the first whitespace-delimited token when unquoted. An unterminated
// quote keeps everything after it.
func unquoteHref(expr string) string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return ""
	}
	if q := expr[0]; q == '"' || q == '\'' {
		value := expr[1:]
		if end := strings.IndexByte(value, q); end >= 0 {
			return value[:end]
		}
		return value
	}
	if fields := strings.Fields(expr); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

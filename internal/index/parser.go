package index

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/net/html"

	"github.com/Tiliavir/purrlog/internal/model"
)

// ErrNestedClass is returned when a second accumulating marker opens before
// the first one closed. The grammar has no nesting.
var ErrNestedClass = errors.New("index: nested marker")

// now is overridden in tests.
var now = time.Now

type class int

const (
	classNone class = iota
	classTitle
	classComments
	classDP
	classDPComment
)

var classNames = map[string]class{
	"TITLE":     classTitle,
	"COMMENTS":  classComments,
	"DP":        classDP,
	"DPCOMMENT": classDPComment,
}

var classLabels = [...]string{
	classNone:      "none",
	classTitle:     "TITLE",
	classComments:  "COMMENTS",
	classDP:        "DP",
	classDPComment: "DPCOMMENT",
}

func (c class) String() string {
	if c < 0 || int(c) >= len(classLabels) {
		return "none"
	}
	return classLabels[c]
}

// action pair for one marker class. start fires on tag open with the tag's
// attributes; end fires on the matching close with the accumulated text.
// A class accumulates text only if it has an end action.
type action struct {
	start func(p *Parser, attrs map[string]string)
	end   func(p *Parser, text string)
}

var actions = map[class]action{
	classTitle:     {start: (*Parser).startTitle, end: (*Parser).endTitle},
	classComments:  {end: (*Parser).endComments},
	classDP:        {start: (*Parser).startDP},
	classDPComment: {end: (*Parser).endDPComment},
}

// Document is what the parser recovers from an index file.
type Document struct {
	Title     string
	Timestamp time.Time // zero if no TITLE marker was seen
	Comment   string
	Products  []*model.DataProduct
}

// Parser is a single forward pass over an index document.
type Parser struct {
	dir string
	doc Document

	haveTitle bool
	haveTS    bool

	cur        class
	curTag     string
	curData    strings.Builder
	paragraphs int

	pending *model.DataProduct
}

// NewParser returns a parser. dir is the entry directory; it is joined with
// each product filename to fill DataProduct.FullPath and may be empty.
func NewParser(dir string) *Parser {
	return &Parser{dir: dir}
}

// Parse reads an index document from r.
func Parse(r io.Reader, dir string) (*Document, error) {
	return NewParser(dir).Parse(r)
}

// Parse consumes r to the end and returns the recovered document. Malformed
// fields degrade to defaults; only tokenizer I/O errors and nested markers
// fail the parse.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("index: %w", err)
			}
			p.flush()
			return &p.doc, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[strings.ToUpper(string(k))] = string(v)
			}
			if err := p.open(tag, attrs); err != nil {
				return nil, err
			}
			if tt == html.SelfClosingTagToken {
				p.close(tag)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			p.close(string(name))
		case html.TextToken:
			p.text(string(z.Text()))
		}
	}
}

func (p *Parser) open(tag string, attrs map[string]string) error {
	if tag == "p" {
		if p.cur != classNone {
			if p.paragraphs > 0 || p.curData.Len() > 0 {
				p.curData.WriteByte('\n')
			}
			p.paragraphs++
		}
		return nil
	}
	c, ok := classNames[strings.ToUpper(strings.TrimSpace(attrs["CLASS"]))]
	if !ok {
		return nil
	}
	a := actions[c]
	if a.start != nil {
		a.start(p, attrs)
	}
	if a.end == nil {
		return nil
	}
	if p.cur != classNone {
		return fmt.Errorf("%w: %s opened inside %s", ErrNestedClass, c, p.cur)
	}
	p.cur = c
	p.curTag = tag
	p.curData.Reset()
	p.paragraphs = 0
	return nil
}

func (p *Parser) close(tag string) {
	if p.cur == classNone || tag != p.curTag {
		return
	}
	c, text := p.cur, p.curData.String()
	p.cur = classNone
	p.curTag = ""
	p.curData.Reset()
	actions[c].end(p, text)
}

// text appends a character-data chunk. Trailing whitespace is dropped,
// blank chunks are skipped and consecutive chunks are joined by one space.
// Paragraph newlines are never collapsed.
func (p *Parser) text(s string) {
	if p.cur == classNone {
		return
	}
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if strings.TrimSpace(s) == "" {
		return
	}
	if cur := p.curData.String(); cur != "" && !strings.HasSuffix(cur, "\n") {
		p.curData.WriteByte(' ')
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
	}
	p.curData.WriteString(s)
}

func (p *Parser) startTitle(attrs map[string]string) {
	if p.haveTS {
		return
	}
	p.doc.Timestamp = parseTimestamp(attrs["TIMESTAMP"])
	p.haveTS = true
}

func (p *Parser) endTitle(text string) {
	if p.haveTitle {
		return
	}
	p.doc.Title = text
	p.haveTitle = true
}

func (p *Parser) endComments(text string) {
	p.doc.Comment = text
}

func (p *Parser) startDP(attrs map[string]string) {
	p.flush()
	policy, err := model.ParsePolicy(attrs["POLICY"])
	if err != nil {
		policy = model.PolicyCopy
	}
	// A product marker without a file name cannot be migrated or shown.
	if strings.TrimSpace(attrs["HREF"]) == "" && policy != model.PolicyIgnore {
		return
	}
	dp := &model.DataProduct{
		Filename:         attrs["HREF"],
		OriginalFilename: attrs["ORIG"],
		Policy:           policy,
		Quiet:            parseQuiet(attrs["QUIET"]),
	}
	if dp.OriginalFilename == "" {
		dp.OriginalFilename = dp.Filename
	}
	if policy != model.PolicyIgnore {
		ts := parseTimestamp(attrs["TIMESTAMP"])
		dp.Timestamp = &ts
	}
	if p.dir != "" && dp.Filename != "" {
		dp.FullPath = filepath.Join(p.dir, dp.Filename)
	}
	p.pending = dp
}

func (p *Parser) endDPComment(text string) {
	if p.pending == nil {
		return
	}
	p.pending.Comment = text
	p.flush()
}

func (p *Parser) flush() {
	if p.pending == nil {
		return
	}
	p.doc.Products = append(p.doc.Products, p.pending)
	p.pending = nil
}

// parseTimestamp reads integer epoch seconds, tolerating a fractional part.
// Anything unparsable yields the current time.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(n, 0)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && inInt64Range(f) {
		return time.Unix(int64(f), 0)
	}
	return now().Truncate(time.Second)
}

// inInt64Range rejects NaN, infinities and values int64 cannot hold.
func inInt64Range(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= math.MinInt64 && f < math.MaxInt64
}

// parseQuiet accepts true/false as well as "1"/"0".
func parseQuiet(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}

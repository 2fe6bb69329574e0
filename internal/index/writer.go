// Package index renders log entries to index.html documents and parses them
// back. The writer and the parser share one grammar: markers are <A> tags
// whose CLASS attribute names what they carry (TITLE, COMMENTS, DP,
// DPCOMMENT); everything else in the document is cosmetic.
package index

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/Tiliavir/purrlog/internal/model"
	"github.com/Tiliavir/purrlog/internal/timecalc"
)

// FileName is the per-entry and catalog index file name.
const FileName = "index.html"

// WriteEntry renders e to w. With full set the fragment is wrapped in a
// complete document. relpath is prepended to product hrefs.
func WriteEntry(w io.Writer, e *model.LogEntry, full bool, relpath string) error {
	bw := bufio.NewWriter(w)
	if full {
		fmt.Fprintf(bw, "<HTML><BODY>\n<TITLE>%s</TITLE>\n", esc(e.Title))
	}
	writeFragment(bw, e, relpath)
	if full {
		bw.WriteString("</BODY></HTML>\n")
	}
	return bw.Flush()
}

// WriteCatalog renders an aggregate document holding the fragment of every
// entry. Product hrefs are prefixed with each entry's directory name so the
// catalog can live in the directory containing the entries.
func WriteCatalog(w io.Writer, title string, ts time.Time, entries []*model.LogEntry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "<HTML><BODY>\n<TITLE>%s</TITLE>\n", esc(title))
	fmt.Fprintf(bw, "<H1><A CLASS=\"TITLE\" TIMESTAMP=%d>%s</A></H1>\n", ts.Unix(), esc(title))
	for _, e := range entries {
		relpath := ""
		if e.Pathname != "" {
			relpath = filepath.Base(e.Pathname) + "/"
		}
		bw.WriteString("<HR>\n")
		writeFragment(bw, e, relpath)
	}
	bw.WriteString("</BODY></HTML>\n")
	return bw.Flush()
}

func writeFragment(bw *bufio.Writer, e *model.LogEntry, relpath string) {
	fmt.Fprintf(bw, "<H2><A CLASS=\"TITLE\" TIMESTAMP=%d>%s</A></H2>\n", e.Timestamp.Unix(), esc(e.Title))
	fmt.Fprintf(bw, "<DIV ALIGN=right><P><SMALL>logged on %s</SMALL></P></DIV>\n", timecalc.LoggedOn(e.Timestamp))

	bw.WriteString("<A CLASS=\"COMMENTS\">\n")
	for _, line := range strings.Split(e.Comment, "\n") {
		fmt.Fprintf(bw, "  <P>%s</P>\n", esc(line))
	}
	bw.WriteString("</A>\n")

	if len(e.VisibleProducts()) > 0 {
		bw.WriteString("<H3>Data products</H3>\n")
	}
	for _, dp := range e.DataProducts {
		href := hrefFor(relpath, dp.Filename)
		if dp.Policy == model.PolicyIgnore {
			fmt.Fprintf(bw, "<A CLASS=\"DP\" HREF=\"%s\" POLICY=\"ignore\"></A>\n", esc(href))
			continue
		}
		var ts int64
		if dp.Timestamp != nil {
			ts = dp.Timestamp.Unix()
		}
		quiet := ""
		if dp.Quiet {
			quiet = " QUIET=\"1\""
		}
		fmt.Fprintf(bw, "<P><A CLASS=\"DP\" HREF=\"%s\" ORIG=\"%s\" POLICY=\"%s\" TIMESTAMP=%d%s>%s</A>",
			esc(href), esc(dp.OriginalFilename), dp.Policy, ts, quiet, esc(filepath.Base(dp.Filename)))
		if dp.Comment != "" {
			fmt.Fprintf(bw, " <A CLASS=\"DPCOMMENT\">%s</A>", esc(dp.Comment))
		}
		bw.WriteString("</P>\n")
	}
}

func hrefFor(relpath, filename string) string {
	if relpath == "" || filepath.IsAbs(filename) {
		return filename
	}
	return relpath + filename
}

func esc(s string) string {
	return html.EscapeString(s)
}

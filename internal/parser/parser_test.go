package parser

import (
	"strings"
	"testing"
)

const browserExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://news.ycombinator.com/" ADD_DATE="1700000001">Hacker News</A>
    <DT><H3 ADD_DATE="1690000000">Development</H3>
    <DL><p>
        <DT><A HREF="https://go.dev" ADD_DATE="1700000000">Go</A>
        <DD>The Go programming language
        <DT><H3>Databases</H3>
        <DL><p>
            <DT><A HREF="https://sqlite.org">SQLite</A>
        </DL><p>
    </DL><p>
</DL><p>
`

func TestParseBrowserExport(t *testing.T) {
	records := Parse([]byte(browserExport))

	if len(records) != 3 {
		t.Fatalf("Parse() returned %d records, want 3", len(records))
	}

	hn := records[0]
	if hn.URL != "https://news.ycombinator.com/" {
		t.Errorf("records[0].URL = %q", hn.URL)
	}
	if hn.Title != "Hacker News" {
		t.Errorf("records[0].Title = %q", hn.Title)
	}
	if hn.Folder != nil {
		t.Errorf("records[0].Folder = %q, want none", *hn.Folder)
	}
	if hn.AddDate == nil || *hn.AddDate != 1700000001 {
		t.Errorf("records[0].AddDate = %v, want 1700000001", hn.AddDate)
	}

	goRec := records[1]
	if goRec.URL != "https://go.dev" {
		t.Errorf("records[1].URL = %q", goRec.URL)
	}
	if goRec.Folder == nil || *goRec.Folder != "Development" {
		t.Errorf("records[1].Folder = %v, want Development", goRec.Folder)
	}
	if goRec.Description == nil || *goRec.Description != "The Go programming language" {
		t.Errorf("records[1].Description = %v", goRec.Description)
	}

	sq := records[2]
	if sq.Folder == nil || *sq.Folder != "Databases" {
		t.Errorf("records[2].Folder = %v, want innermost folder Databases", sq.Folder)
	}
	if sq.Description != nil {
		t.Errorf("records[2].Description = %q, want none", *sq.Description)
	}
	if sq.AddDate != nil {
		t.Errorf("records[2].AddDate = %v, want none", sq.AddDate)
	}
}

func TestParseClosedTagVariant(t *testing.T) {
	// Some tools emit well-formed lists with explicit </DT>.
	doc := `<DL>
	<DT><H3>Reading</H3></DT>
	<DL>
		<DT><A HREF="https://example.com/article">Article</A></DT>
		<DD>Worth a second read</DD>
	</DL>
</DL>`

	records := Parse([]byte(doc))
	if len(records) != 1 {
		t.Fatalf("Parse() returned %d records, want 1", len(records))
	}
	if records[0].Folder == nil || *records[0].Folder != "Reading" {
		t.Errorf("Folder = %v, want Reading", records[0].Folder)
	}
	if records[0].Description == nil || *records[0].Description != "Worth a second read" {
		t.Errorf("Description = %v, want Worth a second read", records[0].Description)
	}
}

func TestParseSchemeFilter(t *testing.T) {
	doc := `<DL>
	<DT><A HREF="javascript:alert(1)">js</A>
	<DT><A HREF="ftp://files.example.com">ftp</A>
	<DT><A HREF="file:///etc/passwd">file</A>
	<DT><A>no href</A>
	<DT><A HREF="https://valid.example.com">Valid</A>
</DL>`

	records := Parse([]byte(doc))
	if len(records) != 1 {
		t.Fatalf("Parse() returned %d records, want 1", len(records))
	}
	if records[0].URL != "https://valid.example.com" {
		t.Errorf("URL = %q, want https://valid.example.com", records[0].URL)
	}
}

func TestParseTitleFallbackToURL(t *testing.T) {
	doc := `<DT><A HREF="https://example.com/page">   </A>`

	records := Parse([]byte(doc))
	if len(records) != 1 {
		t.Fatalf("Parse() returned %d records, want 1", len(records))
	}
	if records[0].Title != "https://example.com/page" {
		t.Errorf("Title = %q, want the href", records[0].Title)
	}
}

func TestParseTitleTruncated(t *testing.T) {
	long := strings.Repeat("x", 400)
	doc := `<DT><A HREF="https://example.com">` + long + `</A>`

	records := Parse([]byte(doc))
	if len(records) != 1 {
		t.Fatalf("Parse() returned %d records, want 1", len(records))
	}
	if got := len(records[0].Title); got != 255 {
		t.Errorf("Title length = %d, want 255", got)
	}
}

func TestParseInvalidAddDate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"non-numeric", `<DT><A HREF="https://example.com" ADD_DATE="soon">X</A>`},
		{"zero placeholder", `<DT><A HREF="https://example.com" ADD_DATE="0">X</A>`},
		{"negative epoch", `<DT><A HREF="https://example.com" ADD_DATE="-1">X</A>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Parse([]byte(tt.doc))
			if len(records) != 1 {
				t.Fatalf("Parse() returned %d records, want 1", len(records))
			}
			if records[0].AddDate != nil {
				t.Errorf("AddDate = %v, want none", *records[0].AddDate)
			}
		})
	}
}

func TestParseNoDescriptionWhenNextSiblingIsNotDD(t *testing.T) {
	doc := `<DL>
	<DT><A HREF="https://a.example.com">A</A>
	<DT><A HREF="https://b.example.com">B</A>
	<DD>belongs to B
</DL>`

	records := Parse([]byte(doc))
	if len(records) != 2 {
		t.Fatalf("Parse() returned %d records, want 2", len(records))
	}
	if records[0].Description != nil {
		t.Errorf("records[0].Description = %q, want none", *records[0].Description)
	}
	if records[1].Description == nil || *records[1].Description != "belongs to B" {
		t.Errorf("records[1].Description = %v, want belongs to B", records[1].Description)
	}
}

func TestParseEmptyFolderHeadingIgnored(t *testing.T) {
	doc := `<DL>
	<DT><H3>   </H3>
	<DL>
		<DT><A HREF="https://example.com">X</A>
	</DL>
</DL>`

	records := Parse([]byte(doc))
	if len(records) != 1 {
		t.Fatalf("Parse() returned %d records, want 1", len(records))
	}
	if records[0].Folder != nil {
		t.Errorf("Folder = %q, want none for a blank heading", *records[0].Folder)
	}
}

func TestParseMalformedAndEmptyInput(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{"empty input", "", 0},
		{"plain text", "not html at all", 0},
		{"unclosed div", `<div><a href="https://x.example.com">X</div>`, 1},
		{"tag soup", `<dl><dt><a href="https://y.example.com">Y<dd><dl>`, 1},
		{"no links", `<html><body><p>nothing here</p></body></html>`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Parse([]byte(tt.doc))
			if len(records) != tt.want {
				t.Errorf("Parse() returned %d records, want %d", len(records), tt.want)
			}
		})
	}
}

func TestParseKeepsDuplicatesInDocumentOrder(t *testing.T) {
	doc := `<DL>
	<DT><A HREF="https://example.com/1">First</A>
	<DT><A HREF="https://example.com/1">Second</A>
	<DT><A HREF="https://example.com/2">Third</A>
</DL>`

	records := Parse([]byte(doc))
	if len(records) != 3 {
		t.Fatalf("Parse() returned %d records, want 3", len(records))
	}

	titles := []string{"First", "Second", "Third"}
	for i, want := range titles {
		if records[i].Title != want {
			t.Errorf("records[%d].Title = %q, want %q", i, records[i].Title, want)
		}
	}
}

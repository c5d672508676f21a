package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/tsawler/preflight/model"
)

func sample() Summary {
	return Summary{
		Name:  "brochure.pdf",
		Pages: 2,
		Issues: []model.Issue{
			model.LandscapeIssue(2),
			model.ImageResolutionIssue(1, 300),
		},
		Warnings: []model.Warning{
			{Page: 2, Code: model.WarnContentDecode, Message: "font size check skipped"},
		},
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sample(), 0))

	want := "brochure.pdf: 2 pages, 2 issues\n" +
		"  - Page 2 has landscape orientation.\n" +
		"  - Page 1 has image resolution issues. Please use images with at least 300 dpi.\n" +
		"warnings:\n" +
		"  - page 2: content_decode: font size check skipped\n"
	assert.Equal(t, want, buf.String())
}

func TestTextNoIssues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, Summary{Name: "ok.pdf", Pages: 1}, 80))

	assert.Equal(t, "ok.pdf: 1 page, 0 issues\n  - No print-readiness issues found.\n", buf.String())
}

func TestTextWrapping(t *testing.T) {
	var buf bytes.Buffer
	s := Summary{Name: "a.pdf", Pages: 1, Issues: []model.Issue{model.ImageResolutionIssue(1, 300)}}
	require.NoError(t, Text(&buf, s, 40))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Greater(t, len(lines), 2, "message should wrap: %q", buf.String())
	assert.True(t, strings.HasPrefix(lines[1], "  - Page 1"))
	for _, line := range lines[2:] {
		assert.True(t, strings.HasPrefix(line, "    "), "continuation line not indented: %q", line)
		assert.LessOrEqual(t, len(line), 40)
	}

	// Wrapping never changes the words
	joined := strings.Join(strings.Fields(strings.Join(lines[1:], " ")), " ")
	assert.Equal(t, "- "+model.ImageResolutionIssue(1, 300).Message, joined)
}

func TestTextError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextError(&buf, "bad.pdf", errors.New("document is not a valid PDF")))
	assert.Equal(t, "bad.pdf: document is not a valid PDF\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sample()))

	var got struct {
		File   string `json:"file"`
		Pages  int    `json:"pages"`
		Issues []struct {
			Page    int    `json:"page"`
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"issues"`
		Warnings []model.Warning `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "brochure.pdf", got.File)
	assert.Equal(t, 2, got.Pages)
	require.Len(t, got.Issues, 2)
	assert.Equal(t, "orientation", got.Issues[0].Kind)
	assert.Equal(t, 2, got.Issues[0].Page)
	assert.Equal(t, "image_resolution", got.Issues[1].Kind)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, model.WarnContentDecode, got.Warnings[0].Code)
}

func TestJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, Summary{Name: "ok.pdf"}))

	assert.Contains(t, buf.String(), `"issues": []`)
	assert.NotContains(t, buf.String(), "warnings")
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONError(&buf, "bad.pdf", errors.New("boom")))

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]string{"file": "bad.pdf", "error": "boom"}, got)
}

// collect returns the text of every element named tag
func collect(t *testing.T, doc string, tag string) []string {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			var b strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					b.WriteString(c.Data)
				}
			}
			out = append(out, b.String())
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sample()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Equal(t, []string{pageTitle}, collect(t, out, "title"))
	assert.Equal(t, []string{"File: brochure.pdf"}, collect(t, out, "p"))
	assert.Equal(t, []string{
		"Page 2 has landscape orientation.",
		"Page 1 has image resolution issues. Please use images with at least 300 dpi.",
	}, collect(t, out, "li"))
	assert.Contains(t, out, `data-page="2"`)
	assert.Contains(t, out, `class="orientation"`)
}

func TestHTMLNoIssues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, Summary{Name: "ok.pdf", Pages: 1}))

	assert.Equal(t, []string{"File: ok.pdf", NoIssues}, collect(t, buf.String(), "p"))
	assert.Empty(t, collect(t, buf.String(), "ul"))
}

func TestHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, Summary{Name: "<script>alert(1)</script>.pdf"}))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Equal(t, []string{"File: <script>alert(1)</script>.pdf", NoIssues}, collect(t, buf.String(), "p"))
}

func TestHTMLError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTMLError(&buf, "bad.pdf", errors.New("document is not a valid PDF: missing %PDF- header")))

	assert.Equal(t, []string{"File: bad.pdf", "document is not a valid PDF: missing %PDF- header"},
		collect(t, buf.String(), "p"))
	assert.Contains(t, buf.String(), `class="error"`)
}

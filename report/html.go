package report

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const pageTitle = "Print Readiness Results"

// HTML writes the result page: the file name and the issue list, or a
// note that no issues were found.
func HTML(w io.Writer, s Summary) error {
	body := page()

	body.AppendChild(paragraph("File: " + s.Name))
	if len(s.Issues) == 0 {
		body.AppendChild(paragraph(NoIssues))
	} else {
		list := element(atom.Ul)
		for _, issue := range s.Issues {
			li := element(atom.Li, html.Attribute{Key: "data-page", Val: fmt.Sprint(issue.Page)},
				html.Attribute{Key: "class", Val: issue.Kind.String()})
			li.AppendChild(text(issue.Message))
			list.AppendChild(li)
		}
		body.AppendChild(list)
	}

	return render(w, body)
}

// HTMLError writes the result page for a file that could not be checked.
func HTMLError(w io.Writer, name string, err error) error {
	body := page()
	body.AppendChild(paragraph("File: " + name))

	p := element(atom.P, html.Attribute{Key: "class", Val: "error"})
	p.AppendChild(text(err.Error()))
	body.AppendChild(p)

	return render(w, body)
}

// page builds the document skeleton and returns its body.
func page() *html.Node {
	title := element(atom.Title)
	title.AppendChild(text(pageTitle))

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	head.AppendChild(title)

	h1 := element(atom.H1)
	h1.AppendChild(text(pageTitle))

	body := element(atom.Body)
	body.AppendChild(h1)

	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)
	return body
}

func render(w io.Writer, body *html.Node) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(body.Parent)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func paragraph(s string) *html.Node {
	p := element(atom.P)
	p.AppendChild(text(s))
	return p
}

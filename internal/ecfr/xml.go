package ecfr

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/proctor/pkg/scoring"
)

// TitleContent is the extracted text of one CFR title document.
type TitleContent struct {
	Text      string
	WordCount int
	Chapters  map[string]Chapter
	Checksum  string
}

// Chapter is the text belonging to one chapter-level division, keyed by
// the division's N attribute.
type Chapter struct {
	Text      string
	WordCount int
}

// ParseTitle extracts plain text from a full-title XML document. Character
// data is joined with single spaces; chapter-level divisions (CHAPTER or
// DIV3 elements) are additionally captured as separate chunks so agencies
// with chapter-scoped references can be measured in isolation.
func ParseTitle(content string) (*TitleContent, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	decoder.Strict = false

	var full strings.Builder
	chapters := make(map[string]Chapter)

	type openChapter struct {
		id    string
		depth int
		text  strings.Builder
	}

	var open []*openChapter
	depth := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse title xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if isChapterElement(t.Name.Local) {
				if id := attrValue(t.Attr, "N"); id != "" {
					open = append(open, &openChapter{id: id, depth: depth})
				}
			}
		case xml.EndElement:
			if n := len(open); n > 0 && open[n-1].depth == depth {
				ch := open[n-1]
				text := strings.TrimSpace(ch.text.String())
				chapters[ch.id] = Chapter{
					Text:      text,
					WordCount: scoring.WordCount(text),
				}
				open = open[:n-1]
			}
			depth--
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			appendText(&full, text)
			for _, ch := range open {
				appendText(&ch.text, text)
			}
		}
	}

	text := strings.TrimSpace(full.String())
	return &TitleContent{
		Text:      text,
		WordCount: scoring.WordCount(text),
		Chapters:  chapters,
		Checksum:  scoring.Checksum(text),
	}, nil
}

func appendText(b *strings.Builder, text string) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(text)
}

func isChapterElement(name string) bool {
	return name == "CHAPTER" || name == "DIV3"
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

package htmlpatch

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// tag is a start or self-closing tag of interest.
type tag struct {
	index  int
	atom   atom.Atom
	hasSrc bool
	// srcName is the normalised file name of the src attribute.
	srcName string
	// srcsetNames holds the normalised file names of every srcset candidate.
	srcsetNames []string
}

// picture groups the tags between <picture> and </picture>.
type picture struct {
	imgs        []int
	srcsetNames []string
}

type document struct {
	chunks   [][]byte
	tags     []tag
	pictures []picture
}

func parseDocument(data []byte) (*document, error) {
	doc := &document{}
	z := html.NewTokenizer(bytes.NewReader(data))

	var open *picture
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, z.Err()
		}
		raw := append([]byte(nil), z.Raw()...)
		index := len(doc.chunks)
		doc.chunks = append(doc.chunks, raw)

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Picture && tt == html.StartTagToken {
				if open != nil {
					doc.pictures = append(doc.pictures, *open)
				}
				open = &picture{}
				continue
			}
			t := newTag(index, tok)
			doc.tags = append(doc.tags, t)
			if open != nil {
				if t.atom == atom.Img {
					open.imgs = append(open.imgs, index)
				}
				open.srcsetNames = append(open.srcsetNames, t.srcsetNames...)
			}
		case html.EndTagToken:
			if open == nil {
				continue
			}
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Picture {
				doc.pictures = append(doc.pictures, *open)
				open = nil
			}
		}
	}
	if open != nil {
		doc.pictures = append(doc.pictures, *open)
	}
	return doc, nil
}

func newTag(index int, tok html.Token) tag {
	t := tag{index: index, atom: tok.DataAtom}
	// Duplicate attributes keep the first occurrence, as browsers do.
	seenSrcset := false
	for _, attr := range tok.Attr {
		switch attr.Key {
		case "src":
			if t.hasSrc {
				continue
			}
			t.hasSrc = true
			t.srcName = fileName(attr.Val)
		case "srcset":
			if seenSrcset {
				continue
			}
			seenSrcset = true
			for _, candidate := range strings.Split(attr.Val, ",") {
				fields := strings.Fields(candidate)
				if len(fields) == 0 {
					continue
				}
				t.srcsetNames = append(t.srcsetNames, fileName(fields[0]))
			}
		}
	}
	return t
}

// bytes reassembles the document, substituting edited chunks.
func (d *document) bytes(edits map[int][]byte) []byte {
	var buf bytes.Buffer
	for i, chunk := range d.chunks {
		if edited, ok := edits[i]; ok {
			buf.Write(edited)
			continue
		}
		buf.Write(chunk)
	}
	return buf.Bytes()
}

// fileName extracts the last path segment of a URL reference, unescaped and
// NFC-normalised. Data URLs yield "".
func fileName(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(strings.ToLower(ref), "data:") {
		return ""
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	base := path.Base(strings.ReplaceAll(ref, "\\", "/"))
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	return norm.NFC.String(base)
}

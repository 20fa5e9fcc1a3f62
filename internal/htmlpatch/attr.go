package htmlpatch

import (
	"bytes"
	"html"
)

// spliceAttr rewrites the value of attribute key inside a raw start tag,
// leaving every other byte untouched. A missing attribute is appended before
// the closing bracket. The new value is always double quoted.
func spliceAttr(raw []byte, key, value string) []byte {
	quoted := `"` + html.EscapeString(value) + `"`

	if span, ok := findAttr(raw, key); ok {
		var out bytes.Buffer
		out.Grow(len(raw) + len(quoted))
		out.Write(raw[:span.start])
		if !span.hasValue {
			out.WriteByte('=')
		}
		out.WriteString(quoted)
		out.Write(raw[span.end:])
		return out.Bytes()
	}

	end := len(raw)
	if end > 0 && raw[end-1] == '>' {
		end--
		if end > 0 && raw[end-1] == '/' {
			end--
		}
	}
	var out bytes.Buffer
	out.Write(raw[:end])
	if end > 0 && !isSpace(raw[end-1]) {
		out.WriteByte(' ')
	}
	out.WriteString(key)
	out.WriteByte('=')
	out.WriteString(quoted)
	out.Write(raw[end:])
	return out.Bytes()
}

type attrSpan struct {
	// start and end bound the value including quotes; for a bare attribute
	// both sit right after the name.
	start, end int
	hasValue   bool
}

// findAttr scans a raw tag the same way the tokenizer splits attributes.
func findAttr(raw []byte, key string) (attrSpan, bool) {
	n := len(raw)
	i := 0
	if i < n && raw[i] == '<' {
		i++
	}
	for i < n && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}

	for i < n {
		for i < n && (isSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= n || raw[i] == '>' {
			break
		}

		nameStart := i
		i++
		for i < n && !isSpace(raw[i]) && raw[i] != '=' && raw[i] != '>' && raw[i] != '/' {
			i++
		}
		name := raw[nameStart:i]
		nameEnd := i

		j := i
		for j < n && isSpace(raw[j]) {
			j++
		}
		if j >= n || raw[j] != '=' {
			if bytes.EqualFold(name, []byte(key)) {
				return attrSpan{start: nameEnd, end: nameEnd}, true
			}
			continue
		}
		j++
		for j < n && isSpace(raw[j]) {
			j++
		}

		valStart := j
		if j < n && (raw[j] == '"' || raw[j] == '\'') {
			quote := raw[j]
			j++
			for j < n && raw[j] != quote {
				j++
			}
			if j < n {
				j++
			}
		} else {
			for j < n && !isSpace(raw[j]) && raw[j] != '>' {
				j++
			}
		}
		if bytes.EqualFold(name, []byte(key)) {
			return attrSpan{start: valStart, end: j, hasValue: true}, true
		}
		i = j
	}
	return attrSpan{}, false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

package htmlpatch

import "testing"

func TestSpliceAttr(t *testing.T) {
	cases := []struct {
		name, raw, want string
	}{
		{"double quoted", `<img src="a.jpg" alt="x">`, `<img src="NEW" alt="x">`},
		{"single quoted", `<img alt='x' src='a.jpg'>`, `<img alt='x' src="NEW">`},
		{"unquoted", `<img src=a.jpg>`, `<img src="NEW">`},
		{"spaced equals", "<img src =\n 'a.jpg'>", "<img src =\n \"NEW\">"},
		{"upper case key", `<IMG SRC="a.jpg">`, `<IMG SRC="NEW">`},
		{"bare attribute", `<img src alt="x">`, `<img src="NEW" alt="x">`},
		{"missing", `<img alt="x">`, `<img alt="x" src="NEW">`},
		{"missing self closing", `<img alt="x"/>`, `<img alt="x" src="NEW"/>`},
		{"data-src not confused", `<img data-src="a.jpg" src="b.jpg">`, `<img data-src="a.jpg" src="NEW">`},
		{"srcset not confused", `<img srcset="a.jpg 1x" src="b.jpg">`, `<img srcset="a.jpg 1x" src="NEW">`},
	}
	for _, tc := range cases {
		got := string(spliceAttr([]byte(tc.raw), "src", "NEW"))
		if got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestSpliceAttrEscapesValue(t *testing.T) {
	got := string(spliceAttr([]byte(`<img src="a">`), "src", `x"y&z`))
	if got != `<img src="x&#34;y&amp;z">` {
		t.Fatalf("unexpected escaping %q", got)
	}
}

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"images/foo-blur.webp":           "foo-blur.webp",
		"/a/b/c.jpg?v=3#top":             "c.jpg",
		"https://cdn.example/x/my%20pic": "my pic",
		"data:image/webp;base64,AAAA":    "",
		"plain.png":                      "plain.png",
	}
	for in, want := range cases {
		if got := fileName(in); got != want {
			t.Fatalf("fileName(%q) = %q, want %q", in, got, want)
		}
	}
}

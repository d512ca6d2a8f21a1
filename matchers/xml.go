package matchers

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/ggriffiniii/httptest"
)

// XMLPath parses the request body as XML, selects elements with an etree
// path query, and projects each selected element's text through inner; the
// request matches when any selected element satisfies it.
//
//	matchers.XMLPath("//order/item/sku", matchers.Eq("A-100"))
//
// Bodies that aren't well-formed XML and paths that select nothing never
// match. An invalid path expression panics at construction.
func XMLPath(path string, inner httptest.Matcher[string]) httptest.Matcher[*httptest.Request] {
	compiled, err := etree.CompilePath(path)
	if err != nil {
		panic(fmt.Sprintf("matchers: XMLPath: invalid path %q: %v", path, err))
	}
	desc := fmt.Sprintf("xmlPath(%q, %s)", path, inner)
	return httptest.MatchFunc(desc, func(r *httptest.Request) bool {
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(r.Body); err != nil {
			return false
		}
		for _, el := range doc.FindElementsPath(compiled) {
			if inner.Matches(el.Text()) {
				return true
			}
		}
		return false
	})
}

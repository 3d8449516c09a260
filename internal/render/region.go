package render

import "html/template"

// Region is an in-memory Target: the cart container markup plus the total
// display text, as last written by the renderer.
type Region struct {
	items template.HTML
	total string
}

func NewRegion() *Region {
	return &Region{total: "0,00"}
}

func (r *Region) ReplaceItems(markup template.HTML) {
	r.items = markup
}

func (r *Region) SetTotal(total string) {
	r.total = total
}

func (r *Region) Items() template.HTML {
	return r.items
}

// Total is the text currently shown in the total display.
func (r *Region) Total() string {
	return r.total
}

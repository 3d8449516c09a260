// Package render projects a cart into the markup of the cart region and the
// text of the total display.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/cart"
	"github.com/shopspring/decimal"
)

const EmptyMessage = "Your cart is empty."

// Target is the display the renderer rewrites on every call.
type Target interface {
	ReplaceItems(markup template.HTML)
	SetTotal(total string)
}

// Source is the read side of a cart.
type Source interface {
	Items() []cart.Item
	Total() decimal.Decimal
}

type Row struct {
	Index     int    `json:"index"`
	ID        string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// View is the projection of a cart, independent of markup.
type View struct {
	Empty bool   `json:"empty"`
	Rows  []Row  `json:"rows"`
	Total string `json:"total"`
}

// Project builds the View of src. Row indices are the current positions, so
// they have to be recomputed after every removal.
func Project(src Source) View {
	items := src.Items()
	v := View{Empty: len(items) == 0, Rows: make([]Row, 0, len(items))}
	for i, it := range items {
		v.Rows = append(v.Rows, Row{
			Index:     i,
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: cart.FormatAmount(it.UnitPrice),
		})
	}
	if v.Empty {
		v.Total = cart.FormatAmount(decimal.Zero)
	} else {
		v.Total = cart.FormatAmount(src.Total())
	}
	return v
}

const itemsTemplate = `{{- if .Empty -}}
<p class="cart-empty">{{ .EmptyMessage }}</p>
{{- else -}}
{{- range .Rows }}
<div class="cart-item" data-id="{{ .ID }}">
  <div class="cart-item-info">
    <strong>{{ .Name }}</strong>
    <span>{{ .Quantity }} x R$ {{ .UnitPrice }}</span>
  </div>
  <form method="post" action="/cart/items/{{ .Index }}/remove">
    <button type="submit" class="cart-item-remove" data-index="{{ .Index }}">Remove</button>
  </form>
</div>
{{- end }}
{{- end -}}`

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("cart-items").Parse(itemsTemplate))}
}

// Render rewrites target from src. It only reads src.
func (r *Renderer) Render(src Source, target Target) error {
	v := Project(src)

	var buf bytes.Buffer
	data := struct {
		View
		EmptyMessage string
	}{View: v, EmptyMessage: EmptyMessage}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render cart items: %w", err)
	}

	target.ReplaceItems(template.HTML(buf.String()))
	target.SetTotal(v.Total)
	return nil
}

// internal/domain/cart/builder.go
package cart

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/tisoftshake/softshake/internal/domain/customization"
)

// BuildLineItem turns a resolved customization into a line item.
// It trusts its input: validation happened in customization.ConfirmSelection.
// qty < 1 defaults to 1.
func BuildLineItem(r customization.Resolved, qty int) LineItem {
	if qty < 1 {
		qty = 1
	}
	sel := r.Selection.Clone()

	li := LineItem{
		ID:            r.Product.ID,
		Name:          r.Label,
		BasePrice:     r.BasePrice,
		Quantity:      qty,
		ImageURL:      r.Product.ImageURL,
		Rule:          r.Rule,
		DeliveryDate:  sel.DeliveryDate,
		CustomerName:  sel.CustomerName,
		CustomerPhone: sel.CustomerPhone,
		Selection:     sel,
	}
	for _, t := range r.Toppings {
		li.Toppings = append(li.Toppings, Topping{ID: t.ID, Name: t.Name, Price: t.Price})
	}
	for _, f := range r.Flavors {
		li.Flavors = append(li.Flavors, f.Name)
	}
	for _, f := range r.Fillings {
		li.Fillings = append(li.Fillings, f.Name)
	}
	if r.Variation != nil {
		li.Variation = r.Variation.Name
	}

	li.Key = MergeKey(li.ID, sel)
	return li
}

// MergeKey is the identity of a configured line: product id plus a canonical
// serialization of every customization field. Multi-valued fields compare as sets,
// so "A + B" and "B + A" share one line and the first label added is kept.
func MergeKey(productID string, sel customization.Selection) string {
	var b strings.Builder
	b.WriteString("p=")
	b.WriteString(strings.TrimSpace(productID))
	writeSet(&b, "t", sel.Toppings)
	writeSet(&b, "f", sel.Flavors)
	writeSet(&b, "r", sel.Fillings)
	writeField(&b, "v", sel.Variation)
	writeField(&b, "d", sel.DeliveryDate)
	writeField(&b, "n", sel.CustomerName)
	writeField(&b, "ph", sel.CustomerPhone)

	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeSet(b *strings.Builder, tag string, ids []string) {
	cp := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cp = append(cp, id)
		}
	}
	sort.Strings(cp)
	writeField(b, tag, strings.Join(cp, ","))
}

func writeField(b *strings.Builder, tag, v string) {
	b.WriteString("|")
	b.WriteString(tag)
	b.WriteString("=")
	b.WriteString(strings.TrimSpace(v))
}

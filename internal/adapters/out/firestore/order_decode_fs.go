// internal/adapters/out/firestore/order_decode_fs.go
package firestore

import (
	"errors"

	"cloud.google.com/go/firestore"

	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

// ========================
// Order document mapping
// ========================

func orderToData(o orderdom.Order) map[string]any {
	m := map[string]any{
		"customerName":    o.CustomerName,
		"customerPhone":   o.CustomerPhone,
		"deliveryType":    string(o.DeliveryType),
		"deliveryAddress": o.DeliveryAddress,
		"items":           lineItemsToData(o.Items),
		"subtotal":        money(o.Subtotal),
		"deliveryFee":     money(o.DeliveryFee),
		"totalAmount":     money(o.TotalAmount),
		"status":          string(o.Status),
		"createdAt":       o.CreatedAt.UTC(),
		"updatedAt":       o.UpdatedAt.UTC(),
	}
	if o.DeliveryDate != nil {
		m["deliveryDate"] = o.DeliveryDate.UTC()
	}
	return m
}

func docToOrder(snap *firestore.DocumentSnapshot) (orderdom.Order, error) {
	if snap == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: snapshot is nil")
	}
	m := snap.Data()

	o := orderdom.Order{
		ID:              snap.Ref.ID,
		CustomerName:    asString(m["customerName"]),
		CustomerPhone:   asString(m["customerPhone"]),
		DeliveryType:    pricing.DeliveryType(asString(m["deliveryType"])),
		DeliveryAddress: asString(m["deliveryAddress"]),
		Items:           lineItemsFromData(m["items"]),
		Subtotal:        asDecimal(m["subtotal"]),
		DeliveryFee:     asDecimal(m["deliveryFee"]),
		TotalAmount:     asDecimal(m["totalAmount"]),
		Status:          orderdom.Status(asString(m["status"])),
	}
	if !o.Status.IsValid() {
		// legacy documents without a status are treated as new
		o.Status = orderdom.StatusPending
	}
	if !o.DeliveryType.IsValid() {
		o.DeliveryType = pricing.DeliveryPickup
	}
	if t, ok := asTime(m["createdAt"]); ok {
		o.CreatedAt = t
	}
	if t, ok := asTime(m["updatedAt"]); ok {
		o.UpdatedAt = t
	}
	if t, ok := asTime(m["deliveryDate"]); ok {
		o.DeliveryDate = &t
	}
	if o.Subtotal.IsZero() && len(o.Items) > 0 {
		o.Subtotal = o.TotalAmount.Sub(o.DeliveryFee)
	}
	return o, nil
}

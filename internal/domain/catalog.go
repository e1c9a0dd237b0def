package domain

import (
	"strings"
	"time"
)

// Timestamp decodes the backend's created_at values, which are ISO-8601
// without a zone offset (naive UTC) but may also carry one.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// Image is a stored picture attached to a fabric or product.
type Image struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

// FabricInput is the writable part of a fabric.
type FabricInput struct {
	Name           string  `json:"name"`
	Origin         string  `json:"origin"`
	Price          float64 `json:"price"`
	Size           string  `json:"size"`
	Description    string  `json:"description"`
	OnClearance    bool    `json:"on_clearance"`
	ClearancePrice float64 `json:"clearance_price"`
}

// Fabric is a fabric as returned by the backend.
type Fabric struct {
	ID uint `json:"id"`
	FabricInput
	CreatedAt Timestamp `json:"created_at"`
	Images    []Image   `json:"images"`
	Works     []Image   `json:"works"`
}

// DisplayPrice is the clearance price for fabrics on clearance that have
// one, otherwise the regular price.
func (f Fabric) DisplayPrice() float64 {
	if f.OnClearance && f.ClearancePrice > 0 {
		return f.ClearancePrice
	}
	return f.Price
}

// Category groups products.
type Category struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt Timestamp `json:"created_at"`
}

// CategoryInput is the writable part of a category.
type CategoryInput struct {
	Name string `json:"name"`
}

// ProductInput is the writable part of a product.
type ProductInput struct {
	Name        string  `json:"name"`
	CategoryID  uint    `json:"category_id"`
	Price       float64 `json:"price"`
	Size        string  `json:"size"`
	Description string  `json:"description"`
	PromoPrice  float64 `json:"promo_price"`
}

// Product is a product as returned by the backend.
type Product struct {
	ID uint `json:"id"`
	ProductInput
	CreatedAt Timestamp `json:"created_at"`
	Images    []Image   `json:"images"`
}

// DisplayPrice is the promo price when one is set, otherwise the regular price.
func (p Product) DisplayPrice() float64 {
	if p.PromoPrice > 0 {
		return p.PromoPrice
	}
	return p.Price
}

// OrderItemInput is one line of a new order.
type OrderItemInput struct {
	ProductID   uint    `json:"product_id"`
	FabricID    *uint   `json:"fabric_id"`
	State       string  `json:"state"`
	Adjustment  float64 `json:"adjustment"`
	Description string  `json:"description"`
}

// OrderItem is an order line with the prices computed by the backend.
type OrderItem struct {
	ID uint `json:"id"`
	OrderItemInput
	OriginalPrice float64 `json:"original_price"`
	FinalPrice    float64 `json:"final_price"`
}

// OrderInput is the writable header of an order.
type OrderInput struct {
	CustomerName  string `json:"customer_name"`
	Description   string `json:"description"`
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
}

// NewOrder is the body for creating an order together with its items.
type NewOrder struct {
	OrderInput
	Items []OrderItemInput `json:"items"`
}

// Order is an order as returned by the backend.
type Order struct {
	ID uint `json:"id"`
	OrderInput
	CreatedAt Timestamp   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// Total sums the final price of every item.
func (o Order) Total() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.FinalPrice
	}
	return total
}

// UploadResult lists the public URLs of the files the backend stored.
type UploadResult struct {
	Saved []string `json:"saved"`
}

// AppendResult reports an idempotent image append.
type AppendResult struct {
	OK       bool `json:"ok"`
	Inserted int  `json:"inserted"`
	Skipped  int  `json:"skipped"`
}

// ReplaceResult reports an image list replacement.
type ReplaceResult struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

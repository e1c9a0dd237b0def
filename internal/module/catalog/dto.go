package catalog

// FabricRequest is the input for creating or updating a fabric.
type FabricRequest struct {
	Name           string  `json:"name" binding:"required,max=200"`
	Origin         string  `json:"origin" binding:"max=100"`
	Price          float64 `json:"price" binding:"gte=0"`
	Size           string  `json:"size" binding:"max=100"`
	Description    string  `json:"description" binding:"max=2000"`
	OnClearance    bool    `json:"on_clearance"`
	ClearancePrice float64 `json:"clearance_price" binding:"gte=0"`
}

// CategoryRequest is the input for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ProductRequest is the input for creating or updating a product.
type ProductRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	CategoryID  uint    `json:"category_id" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Size        string  `json:"size" binding:"max=100"`
	Description string  `json:"description" binding:"max=2000"`
	PromoPrice  float64 `json:"promo_price" binding:"gte=0"`
}

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	ProductID   uint    `json:"product_id" binding:"required"`
	FabricID    *uint   `json:"fabric_id"`
	State       string  `json:"state" binding:"max=50"`
	Adjustment  float64 `json:"adjustment"`
	Description string  `json:"description" binding:"max=500"`
}

// CreateOrderRequest is the input for creating an order with its items.
type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name" binding:"required,max=100"`
	Description   string             `json:"description" binding:"max=2000"`
	OrderStatus   string             `json:"order_status" binding:"max=50"`
	PaymentStatus string             `json:"payment_status" binding:"max=50"`
	Items         []OrderItemRequest `json:"items" binding:"dive"`
}

// UpdateOrderRequest is the input for updating an order header.
type UpdateOrderRequest struct {
	CustomerName  string `json:"customer_name" binding:"required,max=100"`
	Description   string `json:"description" binding:"max=2000"`
	OrderStatus   string `json:"order_status" binding:"max=50"`
	PaymentStatus string `json:"payment_status" binding:"max=50"`
}

// ImageListRequest replaces the picture list of a fabric or product.
type ImageListRequest struct {
	URLs []string `json:"urls" binding:"dive,required"`
}

package models

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceUnpaid    InvoiceStatus = "unpaid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Invoice is a persisted sale. Line prices are snapshots taken when the
// invoice was created.
type Invoice struct {
	InvoiceID       string        `bson:"invoiceId" json:"invoiceId" dynamodbav:"invoiceId"`
	CustomerID      string        `bson:"customerId" json:"customerId" dynamodbav:"customerId"`
	CustomerName    string        `bson:"customerName" json:"customerName" dynamodbav:"customerName"`
	CustomerPhone   string        `bson:"customerPhone,omitempty" json:"customerPhone,omitempty" dynamodbav:"customerPhone,omitempty"`
	CustomerEmail   string        `bson:"customerEmail,omitempty" json:"customerEmail,omitempty" dynamodbav:"customerEmail,omitempty"`
	CustomerAddress string        `bson:"customerAddress,omitempty" json:"customerAddress,omitempty" dynamodbav:"customerAddress,omitempty"`
	Items           []InvoiceItem `bson:"items" json:"items" dynamodbav:"items"`
	Total           float64       `bson:"total" json:"total" dynamodbav:"total"`
	Tax             float64       `bson:"tax" json:"tax" dynamodbav:"tax"`
	GrandTotal      float64       `bson:"grandTotal" json:"grandTotal" dynamodbav:"grandTotal"`
	CreatedAt       string        `bson:"createdAt" json:"createdAt" dynamodbav:"createdAt"` // RFC 3339, UTC, millisecond precision
	Status          InvoiceStatus `bson:"status" json:"status" dynamodbav:"status"`
	PaymentMethod   string        `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty" dynamodbav:"paymentMethod,omitempty"`
}

// InvoiceItem is one product/quantity line of an invoice.
type InvoiceItem struct {
	ProductID   string  `bson:"productId" json:"productId" dynamodbav:"productId"`
	Name        string  `bson:"name" json:"name" dynamodbav:"name"`
	Quantity    int     `bson:"quantity" json:"quantity" dynamodbav:"quantity"`
	Price       float64 `bson:"price" json:"price" dynamodbav:"price"`
	BatchNumber string  `bson:"batchNumber,omitempty" json:"batchNumber,omitempty" dynamodbav:"batchNumber,omitempty"`
	ExpiryDate  string  `bson:"expiryDate,omitempty" json:"expiryDate,omitempty" dynamodbav:"expiryDate,omitempty"`
	Subtotal    float64 `bson:"subtotal" json:"subtotal" dynamodbav:"subtotal"`
}

// InvoiceRequest is the create-invoice payload.
type InvoiceRequest struct {
	CustomerID      string               `json:"customerId"`
	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	CustomerEmail   string               `json:"customerEmail"`
	CustomerAddress string               `json:"customerAddress"`
	PaymentMethod   string               `json:"paymentMethod"`
	Items           []InvoiceLineRequest `json:"items"`
}

// InvoiceLineRequest names a product by id or by (partial) name.
type InvoiceLineRequest struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// CreatedAtLayout formats Invoice.CreatedAt. Values are always UTC, so the
// strings sort chronologically.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

package models

// Product is a stocked medicine line. Dates are kept exactly as supplied
// by the caller (ISO date strings).
type Product struct {
	ProductID         string  `bson:"productId" json:"productId" dynamodbav:"productId"`
	Name              string  `bson:"name" json:"name" dynamodbav:"name"`
	Stock             int     `bson:"stock" json:"stock" dynamodbav:"stock"`
	Price             float64 `bson:"price" json:"price" dynamodbav:"price"`
	BatchNumber       string  `bson:"batchNumber" json:"batchNumber" dynamodbav:"batchNumber"`
	ManufacturingDate string  `bson:"manufacturingDate" json:"manufacturingDate" dynamodbav:"manufacturingDate"`
	ExpiryDate        string  `bson:"expiryDate" json:"expiryDate" dynamodbav:"expiryDate"`
}

// ProductInput carries an add-product request. Pointers distinguish a
// missing field from a zero value.
type ProductInput struct {
	Name              string   `json:"name"`
	Stock             *int     `json:"stock"`
	Price             *float64 `json:"price"`
	BatchNumber       string   `json:"batchNumber"`
	ManufacturingDate string   `json:"manufacturingDate"`
	ExpiryDate        string   `json:"expiryDate"`
}

// ProductUpdate is a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name              *string  `json:"name,omitempty"`
	Stock             *int     `json:"stock,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	BatchNumber       *string  `json:"batchNumber,omitempty"`
	ManufacturingDate *string  `json:"manufacturingDate,omitempty"`
	ExpiryDate        *string  `json:"expiryDate,omitempty"`
}

// IsEmpty reports whether no field was supplied.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Stock == nil && u.Price == nil &&
		u.BatchNumber == nil && u.ManufacturingDate == nil && u.ExpiryDate == nil
}

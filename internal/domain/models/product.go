package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DateFormat is the canonical calendar-date layout used across the API,
// the store and the model prompts.
const DateFormat = "2006-01-02"

// Product represents a single inventory record. The identifier is
// assigned by the store and immutable afterwards.
type Product struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"product_name" json:"product_name"`
	Price      float64            `bson:"price" json:"price"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	ExpiryDate string             `bson:"expiry_date" json:"expiry_date"`
}

// ProductInput is the payload accepted when creating or replacing a
// product through the plain CRUD endpoints.
type ProductInput struct {
	Name       string  `json:"product_name" binding:"required"`
	Price      float64 `json:"price"`
	Quantity   *int    `json:"quantity"`
	ExpiryDate string  `json:"expiry_date" binding:"required"`
}

// ScannedCandidate is an ephemeral CREATE payload extracted from a
// product photo, waiting in the scan queue for human review. It has no
// identifier; items are tagged only by arrival order.
type ScannedCandidate struct {
	Name       string   `json:"product_name"`
	Price      *float64 `json:"price"`
	Quantity   *int     `json:"quantity"`
	ExpiryDate string   `json:"expiry_date"`
}

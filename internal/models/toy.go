package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Toy represents a toy listing in the marketplace.
type Toy struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ToyName     string             `json:"toyName" bson:"toyName"`
	Category    string             `json:"category" bson:"category"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	Price       float64            `json:"price" bson:"price"`
	Rating      float64            `json:"rating" bson:"rating"`
	Description string             `json:"description" bson:"description"`
	Img         string             `json:"img" bson:"img"`
	SellerName  string             `json:"sellerName" bson:"sellerName"`
	SellerEmail string             `json:"sellerEmail" bson:"sellerEmail"`
}

package model

import "time"

// Property is a rental listing as stored in the `properties` table.
// Booking logic only reads it: MonthlyRent prices a stay and OwnerID
// decides who may approve or reject bookings on it.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – short listing title.
//  Description     – free-form description.
//  Address         – street address.
//  MonthlyRent     – rent per month in whole currency units (decimal).
//  SecurityDeposit – deposit collected separately from the booking cost.
//  Bedrooms        – number of bedrooms.
//  Bathrooms       – number of bathrooms.
//  OwnerID         – id of the owning user; decides who manages the listing.
//  OwnerName       – display name of the owning user.
//  ImageURL        – optional image location (no upload handling here).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Property struct {
    ID              uint64    `json:"id"`              // properties.id
    Title           string    `json:"title"`           // properties.title
    Description     string    `json:"description"`     // properties.description
    Address         string    `json:"address"`         // properties.address
    MonthlyRent     float64   `json:"monthlyRent"`     // properties.monthly_rent
    SecurityDeposit float64   `json:"securityDeposit"` // properties.security_deposit
    Bedrooms        int       `json:"bedrooms"`        // properties.bedrooms
    Bathrooms       int       `json:"bathrooms"`       // properties.bathrooms
    OwnerID         uint64    `json:"ownerId"`         // properties.owner_id
    OwnerName       string    `json:"ownerName"`       // properties.owner_name
    ImageURL        *string   `json:"imageUrl"`        // properties.image_url (nullable)
    CreatedAt       time.Time `json:"createdAt"`       // properties.created_at
    UpdatedAt       time.Time `json:"updatedAt"`       // properties.updated_at
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing categories are a fixed enum shared with the database schema.
const (
	CategoryForSale = "for_sale"
	CategoryJob     = "job"
	CategoryService = "service"
	CategoryForRent = "for_rent"
)

// StatusActive is the only listing status ever visible through search.
const StatusActive = "active"

// AllowedCategories returns the set of valid listing categories.
func AllowedCategories() map[string]struct{} {
	return map[string]struct{}{
		CategoryForSale: {},
		CategoryJob:     {},
		CategoryService: {},
		CategoryForRent: {},
	}
}

// Listing is the public projection of a listing row. Only allowlisted
// columns are ever selected (see repositories/search_security.go), so this
// struct deliberately has no field for anything sensitive.
type Listing struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Price          *float64   `json:"price"`
	Category       string     `json:"category"`
	Subcategory    *string    `json:"subcategory,omitempty"`
	Status         string     `json:"status"`
	UserID         uuid.UUID  `json:"user_id"`
	LocationWilaya *string    `json:"location_wilaya,omitempty"`
	LocationCity   *string    `json:"location_city,omitempty"`
	Photos         []string   `json:"photos"`
	Condition      *string    `json:"condition,omitempty"`
	AvailableFrom  *time.Time `json:"available_from,omitempty"`
	AvailableTo    *time.Time `json:"available_to,omitempty"`
	RentalPeriod   *string    `json:"rental_period,omitempty"`
	SalaryMin      *float64   `json:"salary_min,omitempty"`
	SalaryMax      *float64   `json:"salary_max,omitempty"`
	JobType        *string    `json:"job_type,omitempty"`
	CompanyName    *string    `json:"company_name,omitempty"`
	FavoritesCount int        `json:"favorites_count"`
	ViewsCount     int        `json:"views_count"`
	CreatedAt      time.Time  `json:"created_at"`

	Seller *SellerProfile `json:"profiles"`
}

// SellerProfile carries the public profile fields attached to a listing.
type SellerProfile struct {
	ID        uuid.UUID `json:"id"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	AvatarURL *string   `json:"avatar_url"`
	Rating    *float64  `json:"rating"`
}

// Package domain provides the domain layer for property listings.
// It contains value objects for listings, queries, drafts and the
// records the creation wizard produces.
package domain

import (
	"fmt"
	"strings"
)

// Category classifies a property listing.
type Category string

const (
	CategoryResidential Category = "RESIDENTIAL"
	CategoryCommercial  Category = "COMMERCIAL"
	CategoryLand        Category = "LAND"
)

// Categories lists the valid categories in display order.
var Categories = []Category{CategoryResidential, CategoryCommercial, CategoryLand}

// IsValid checks if the category is valid.
func (c Category) IsValid() bool {
	switch c {
	case CategoryResidential, CategoryCommercial, CategoryLand:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts a case-insensitive string to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}

// Purpose says whether a listing is offered for sale or rent.
type Purpose string

const (
	PurposeSale Purpose = "SALE"
	PurposeRent Purpose = "RENT"
)

// Purposes lists the valid purposes in display order.
var Purposes = []Purpose{PurposeSale, PurposeRent}

// IsValid checks if the purpose is valid.
func (p Purpose) IsValid() bool {
	return p == PurposeSale || p == PurposeRent
}

// String returns the string representation of the purpose.
func (p Purpose) String() string {
	return string(p)
}

// ParsePurpose converts a case-insensitive string to a Purpose.
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid purpose: %s", s)
	}
	return p, nil
}

// Listing status values accepted by the status filter.
const (
	StatusAvailable = "AVAILABLE"
	StatusReserved  = "RESERVED"
	StatusSold      = "SOLD"
	StatusRented    = "RENTED"
	StatusDraft     = "DRAFT"
)

var validStatuses = map[string]bool{
	StatusAvailable: true,
	StatusReserved:  true,
	StatusSold:      true,
	StatusRented:    true,
	StatusDraft:     true,
}

// Property is one listing item. Only ID takes part in de-duplication;
// the other fields are carried for display and filtering.
type Property struct {
	ID           string   `json:"id" yaml:"id"`
	Reference    string   `json:"reference,omitempty" yaml:"reference,omitempty"`
	Title        string   `json:"propertyTitle,omitempty" yaml:"propertyTitle,omitempty"`
	Category     Category `json:"category,omitempty" yaml:"category,omitempty"`
	Purpose      Purpose  `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	PropertyType string   `json:"propertyType,omitempty" yaml:"propertyType,omitempty"`
	Location     string   `json:"location,omitempty" yaml:"location,omitempty"`
	Price        float64  `json:"price,omitempty" yaml:"price,omitempty"`
	Area         float64  `json:"area,omitempty" yaml:"area,omitempty"`
	Status       string   `json:"status,omitempty" yaml:"status,omitempty"`
	PermitNumber string   `json:"permitNumber,omitempty" yaml:"permitNumber,omitempty"`
	AgentID      string   `json:"agentId,omitempty" yaml:"agentId,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt    string   `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Draft is a partially filled property record saved for later.
type Draft struct {
	ID        string         `json:"id" yaml:"id"`
	Data      map[string]any `json:"data" yaml:"data"`
	UpdatedAt string         `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Title returns the draft's property title, if any.
func (d Draft) Title() string {
	if s, ok := d.Data["propertyTitle"].(string); ok {
		return s
	}
	return ""
}

// NOCRecord is the artifact produced by the inline NOC creation flow.
type NOCRecord struct {
	ID           string `json:"id"`
	DocumentURL  string `json:"documentUrl"`
	OwnerName    string `json:"ownerName,omitempty"`
	PermitNumber string `json:"permitNumber,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

// NOCRequest is the input of the inline NOC creation flow.
type NOCRequest struct {
	OwnerName    string `json:"ownerName"`
	PermitNumber string `json:"permitNumber,omitempty"`
	Reference    string `json:"reference,omitempty"`
}

// Validate checks the request has the fields the API requires.
func (r NOCRequest) Validate() error {
	if strings.TrimSpace(r.OwnerName) == "" {
		return fmt.Errorf("noc request: owner name is required")
	}
	return nil
}

// PasswordEntry is one password vault record.
type PasswordEntry struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Redacted returns a copy with the password masked.
func (p PasswordEntry) Redacted() PasswordEntry {
	if p.Password != "" {
		p.Password = "********"
	}
	return p
}

// Watermark is an image overlay applied to listing photos.
type Watermark struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	ImageURL string  `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Position string  `json:"position,omitempty" yaml:"position,omitempty"`
	Opacity  float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

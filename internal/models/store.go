package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreProduct is a product listed on the tenant's online storefront.
type StoreProduct struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	IsVisible bool            `json:"is_visible"`
	ImageURL  string          `json:"image_url"`
}

// StoreOrder is an order placed through the storefront.
type StoreOrder struct {
	ID           int             `json:"id"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// StorePolicy holds the storefront's terms or privacy text.
type StorePolicy struct {
	Kind      string    `json:"kind"` // terms | privacy
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DNSRecord is one record of the storefront's custom domain.
type DNSRecord struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Host     string `json:"host"`
	Value    string `json:"value"`
	Verified bool   `json:"verified"`
}

// StoreSettings carries the public storefront identity used for sharing.
type StoreSettings struct {
	Subdomain    string `json:"subdomain"`
	CustomDomain string `json:"custom_domain"`
	StoreName    string `json:"store_name"`
}

// PublicURL is the address customers use: the verified custom domain when one
// exists, else the platform subdomain.
func (s StoreSettings) PublicURL() string {
	if s.CustomDomain != "" {
		return "https://" + s.CustomDomain
	}
	return "https://" + s.Subdomain + ".oxmanage.shop"
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type Season string

const (
	SeasonSpring    Season = "spring"
	SeasonSummer    Season = "summer"
	SeasonFall      Season = "fall"
	SeasonWinter    Season = "winter"
	SeasonAllSeason Season = "all-season"
)

// CanonicalSeasons are the four seasons shown on the homepage featured rows.
// "all-season" flowers appear via filters, not as a featured row.
func CanonicalSeasons() []Season {
	return []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}
}

func ValidSeason(s Season) bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter, SeasonAllSeason:
		return true
	}
	return false
}

type Category string

const (
	CategoryBouquet     Category = "bouquet"
	CategoryCenterpiece Category = "centerpiece"
	CategoryCeremony    Category = "ceremony"
	CategoryBoutonniere Category = "boutonniere"
)

func ValidCategory(c Category) bool {
	switch c {
	case CategoryBouquet, CategoryCenterpiece, CategoryCeremony, CategoryBoutonniere:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type ConsultationStatus string

const (
	ConsultationStatusPending   ConsultationStatus = "pending"
	ConsultationStatusScheduled ConsultationStatus = "scheduled"
	ConsultationStatusCompleted ConsultationStatus = "completed"
	ConsultationStatusCancelled ConsultationStatus = "cancelled"
)

func ValidConsultationStatus(s ConsultationStatus) bool {
	switch s {
	case ConsultationStatusPending, ConsultationStatusScheduled, ConsultationStatusCompleted, ConsultationStatusCancelled:
		return true
	}
	return false
}

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role        Role               `bson:"role" json:"role"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	WeddingDate *time.Time         `bson:"weddingDate,omitempty" json:"weddingDate,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type Flower struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	Season        Season             `bson:"season" json:"season"`
	Category      Category           `bson:"category" json:"category"`
	Colors        []string           `bson:"colors,omitempty" json:"colors,omitempty"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	InStock       bool               `bson:"inStock" json:"inStock"`
	Popularity    int                `bson:"popularity" json:"popularity"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	ReviewCount   int                `bson:"reviewCount" json:"reviewCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// FlowerSummary is the projection used by the homepage featured-by-season
// display.
type FlowerSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	ImageURL string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

type OrderItem struct {
	FlowerID        primitive.ObjectID `bson:"flowerId" json:"flowerId"`
	Name            string             `bson:"name" json:"name"` // For display convenience
	Quantity        int                `bson:"quantity" json:"quantity"`
	Customizations  string             `bson:"customizations,omitempty" json:"customizations,omitempty"`
	PriceAtPurchase float64            `bson:"priceAtPurchase" json:"priceAtPurchase"`
}

type Order struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID          primitive.ObjectID `bson:"customerId" json:"customerId"`
	Items               []OrderItem        `bson:"items" json:"items"`
	TotalAmount         float64            `bson:"totalAmount" json:"totalAmount"`
	Status              OrderStatus        `bson:"status" json:"status"`
	DeliveryDate        time.Time          `bson:"deliveryDate" json:"deliveryDate"`
	DeliveryAddress     string             `bson:"deliveryAddress" json:"deliveryAddress"`
	SpecialInstructions string             `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`

	// Filled in for admin listings, not persisted.
	CustomerName  string `bson:"-" json:"customerName,omitempty"`
	CustomerEmail string `bson:"-" json:"customerEmail,omitempty"`
}

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID `bson:"customerId" json:"customerId"`
	FlowerID   primitive.ObjectID `bson:"flowerId" json:"flowerId"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Images     []string           `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`

	// Reviewer display name, filled in for listings, not persisted.
	CustomerName string `bson:"-" json:"customerName,omitempty"`
}

type CartItem struct {
	FlowerID primitive.ObjectID `bson:"flowerId" json:"flowerId"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"` // snapshot at add-time
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecomputeTotal derives the cart total from its current lines. It runs on
// every mutation and read so the total can never drift from the lines.
func (c *Cart) RecomputeTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.Total = total
}

type Consultation struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Name          string              `bson:"name" json:"name"`
	Email         string              `bson:"email" json:"email"`
	Phone         string              `bson:"phone,omitempty" json:"phone,omitempty"`
	WeddingDate   time.Time           `bson:"weddingDate" json:"weddingDate"`
	PreferredDate *time.Time          `bson:"preferredDate,omitempty" json:"preferredDate,omitempty"`
	Message       string              `bson:"message,omitempty" json:"message,omitempty"`
	Status        ConsultationStatus  `bson:"status" json:"status"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}

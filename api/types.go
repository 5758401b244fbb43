package api

import "time"

// PayingPlan is the subscription tier of a store.
type PayingPlan string

const (
	PlanFree  PayingPlan = "FREE"
	PlanBasic PayingPlan = "BASIC"
	PlanPro   PayingPlan = "PRO"
)

// PlanDuration is the billing period of a plan.
type PlanDuration string

const (
	DurationMonthly PlanDuration = "MONTHLY"
	DurationYearly  PlanDuration = "YEARLY"
)

type ThemeMode string

const (
	ThemeLight ThemeMode = "LIGHT"
	ThemeDark  ThemeMode = "DARK"
)

type RoundedLevel string

const (
	RoundedNone   RoundedLevel = "NONE"
	RoundedSmall  RoundedLevel = "SMALL"
	RoundedMedium RoundedLevel = "MEDIUM"
	RoundedLarge  RoundedLevel = "LARGE"
)

type BackgroundType string

const (
	BackgroundNone           BackgroundType = "NONE"
	BackgroundStriped        BackgroundType = "STRIPED"
	BackgroundDot            BackgroundType = "DOT"
	BackgroundGrid           BackgroundType = "GRID"
	BackgroundFlickeringGrid BackgroundType = "FLICKERING_GRID"
	BackgroundLightRays      BackgroundType = "LIGHT_RAYS"
)

// StoreRole is the role a user holds inside a store.
type StoreRole string

const (
	RoleOwner    StoreRole = "OWNER"
	RoleManager  StoreRole = "MANAGER"
	RoleEmployee StoreRole = "EMPLOYEE"
)

// Address is the postal address of a store.
type Address struct {
	ID      string `json:"id,omitempty"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Store is the merchant storefront with its theming and contact data.
type Store struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description,omitempty"`
	Slug                 string         `json:"slug"`
	Address              *Address       `json:"address,omitempty"`
	PhoneNumber          string         `json:"phoneNumber,omitempty"`
	Email                string         `json:"email,omitempty"`
	Instagram            string         `json:"instagram,omitempty"`
	Facebook             string         `json:"facebook,omitempty"`
	LogoURL              string         `json:"logoUrl,omitempty"`
	PrimaryColor         string         `json:"primaryColor,omitempty"`
	ThemeMode            ThemeMode      `json:"themeMode,omitempty"`
	PrimaryFont          string         `json:"primaryFont,omitempty"`
	SecondaryFont        string         `json:"secondaryFont,omitempty"`
	RoundedLevel         RoundedLevel   `json:"roundedLevel,omitempty"`
	ProductCardShadow    string         `json:"productCardShadow,omitempty"`
	BannerDesktopURL     string         `json:"bannerDesktopUrl,omitempty"`
	BannerTabletURL      string         `json:"bannerTabletUrl,omitempty"`
	BannerMobileURL      string         `json:"bannerMobileUrl,omitempty"`
	BackgroundType       BackgroundType `json:"backgroundType,omitempty"`
	BackgroundEnabled    *bool          `json:"backgroundEnabled,omitempty"`
	BackgroundOpacity    *float64       `json:"backgroundOpacity,omitempty"`
	BackgroundColor      string         `json:"backgroundColor,omitempty"`
	BackgroundConfigJSON string         `json:"backgroundConfigJson,omitempty"`
	ActivePlan           PayingPlan     `json:"activePlan,omitempty"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// StoreUser is a membership of a user in a store.
type StoreUser struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	StoreName string    `json:"storeName"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	Role      StoreRole `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Category groups products of a store.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	StoreID     string    `json:"storeId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProductImage struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ProductVariation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Product prices are integer cents.
type Product struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Price              int64              `json:"price"`
	PromotionalPrice   *int64             `json:"promotionalPrice,omitempty"`
	ShowPromotionBadge bool               `json:"showPromotionBadge,omitempty"`
	Description        string             `json:"description,omitempty"`
	StoreID            string             `json:"storeId"`
	Category           *Category          `json:"category,omitempty"`
	Available          bool               `json:"available"`
	DisplayOrder       int                `json:"displayOrder,omitempty"`
	Images             []ProductImage     `json:"images"`
	Variations         []ProductVariation `json:"variations"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// EffectivePrice is the promotional price when one is set, else the base price.
func (p Product) EffectivePrice() int64 {
	if p.PromotionalPrice != nil && *p.PromotionalPrice > 0 {
		return *p.PromotionalPrice
	}
	return p.Price
}

// CategoryID returns the id of the product's category, if any.
func (p Product) CategoryID() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.ID
}

// CategoryWithProducts is a storefront section. Products without a category
// are grouped under a section with an empty ID.
type CategoryWithProducts struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	StoreID     string    `json:"storeId"`
	Products    []Product `json:"products"`
}

// PublicStore is the storefront projection served by slug.
type PublicStore struct {
	Store
	Categories []CategoryWithProducts `json:"categories"`
}

type DailyMetrics struct {
	Date               time.Time `json:"date"`
	Accesses           int64     `json:"accesses"`
	ProductClicks      int64     `json:"productClicks"`
	ProductConversions int64     `json:"productConversions"`
	CategoryClicks     int64     `json:"categoryClicks"`
	CategoryAccesses   int64     `json:"categoryAccesses"`
}

type ProductMetrics struct {
	ProductID      string  `json:"productId"`
	ProductTitle   string  `json:"productTitle"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	ConversionRate float64 `json:"conversionRate"`
}

type CategoryMetrics struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Clicks       int64  `json:"clicks"`
	Accesses     int64  `json:"accesses"`
}

// StoreMetrics aggregates storefront events over a period.
type StoreMetrics struct {
	StoreID                  string            `json:"storeId"`
	StoreName                string            `json:"storeName"`
	StartDate                time.Time         `json:"startDate"`
	EndDate                  time.Time         `json:"endDate"`
	TotalAccesses            int64             `json:"totalAccesses"`
	TotalProductClicks       int64             `json:"totalProductClicks"`
	TotalProductConversions  int64             `json:"totalProductConversions"`
	TotalCategoryClicks      int64             `json:"totalCategoryClicks"`
	TotalCategoryAccesses    int64             `json:"totalCategoryAccesses"`
	DailyMetrics             []DailyMetrics    `json:"dailyMetrics"`
	TopProductsByClicks      []ProductMetrics  `json:"topProductsByClicks"`
	TopProductsByConversions []ProductMetrics  `json:"topProductsByConversions"`
	TopCategoriesByClicks    []CategoryMetrics `json:"topCategoriesByClicks"`
	TopCategoriesByAccesses  []CategoryMetrics `json:"topCategoriesByAccesses"`
}

// Billing is a payment request for a plan upgrade.
type Billing struct {
	ID           string       `json:"id"`
	PaymentURL   string       `json:"paymentUrl"`
	Price        int64        `json:"price"`
	PayingPlan   PayingPlan   `json:"payingPlan"`
	PlanDuration PlanDuration `json:"planDuration"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	ExternalID   string       `json:"externalId"`
}

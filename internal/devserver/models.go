package devserver

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/api"
)

type storeRow struct {
	bun.BaseModel `bun:"table:stores"`

	ID                   string             `bun:"id,pk"`
	Name                 string             `bun:"name,notnull"`
	Description          string             `bun:"description"`
	Slug                 string             `bun:"slug,notnull,unique"`
	Address              *api.Address       `bun:"address"`
	PhoneNumber          string             `bun:"phone_number"`
	Email                string             `bun:"email"`
	Instagram            string             `bun:"instagram"`
	Facebook             string             `bun:"facebook"`
	LogoURL              string             `bun:"logo_url"`
	PrimaryColor         string             `bun:"primary_color"`
	ThemeMode            api.ThemeMode      `bun:"theme_mode"`
	PrimaryFont          string             `bun:"primary_font"`
	SecondaryFont        string             `bun:"secondary_font"`
	RoundedLevel         api.RoundedLevel   `bun:"rounded_level"`
	ProductCardShadow    string             `bun:"product_card_shadow"`
	BannerDesktopURL     string             `bun:"banner_desktop_url"`
	BannerTabletURL      string             `bun:"banner_tablet_url"`
	BannerMobileURL      string             `bun:"banner_mobile_url"`
	BackgroundType       api.BackgroundType `bun:"background_type"`
	BackgroundEnabled    *bool              `bun:"background_enabled"`
	BackgroundOpacity    *float64           `bun:"background_opacity"`
	BackgroundColor      string             `bun:"background_color"`
	BackgroundConfigJSON string             `bun:"background_config_json"`
	ActivePlan           api.PayingPlan     `bun:"active_plan"`
	CreatedAt            time.Time          `bun:"created_at,notnull"`
	UpdatedAt            time.Time          `bun:"updated_at,notnull"`
}

func (r storeRow) toAPI() api.Store {
	return api.Store{
		ID:                   r.ID,
		Name:                 r.Name,
		Description:          r.Description,
		Slug:                 r.Slug,
		Address:              r.Address,
		PhoneNumber:          r.PhoneNumber,
		Email:                r.Email,
		Instagram:            r.Instagram,
		Facebook:             r.Facebook,
		LogoURL:              r.LogoURL,
		PrimaryColor:         r.PrimaryColor,
		ThemeMode:            r.ThemeMode,
		PrimaryFont:          r.PrimaryFont,
		SecondaryFont:        r.SecondaryFont,
		RoundedLevel:         r.RoundedLevel,
		ProductCardShadow:    r.ProductCardShadow,
		BannerDesktopURL:     r.BannerDesktopURL,
		BannerTabletURL:      r.BannerTabletURL,
		BannerMobileURL:      r.BannerMobileURL,
		BackgroundType:       r.BackgroundType,
		BackgroundEnabled:    r.BackgroundEnabled,
		BackgroundOpacity:    r.BackgroundOpacity,
		BackgroundColor:      r.BackgroundColor,
		BackgroundConfigJSON: r.BackgroundConfigJSON,
		ActivePlan:           r.ActivePlan,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

type storeUserRow struct {
	bun.BaseModel `bun:"table:store_users"`

	ID        string        `bun:"id,pk"`
	StoreID   string        `bun:"store_id,notnull"`
	UserID    string        `bun:"user_id,notnull"`
	UserName  string        `bun:"user_name"`
	UserEmail string        `bun:"user_email"`
	Role      api.StoreRole `bun:"role,notnull"`
	CreatedAt time.Time     `bun:"created_at,notnull"`
}

type categoryRow struct {
	bun.BaseModel `bun:"table:categories"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	ImageURL    string    `bun:"image_url"`
	StoreID     string    `bun:"store_id,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (r categoryRow) toAPI() api.Category {
	return api.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		StoreID:     r.StoreID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// productRow keeps images and variations as JSON columns.
type productRow struct {
	bun.BaseModel `bun:"table:products"`

	ID                 string                 `bun:"id,pk"`
	Title              string                 `bun:"title,notnull"`
	Price              int64                  `bun:"price,notnull"`
	PromotionalPrice   *int64                 `bun:"promotional_price"`
	ShowPromotionBadge bool                   `bun:"show_promotion_badge,notnull"`
	Description        string                 `bun:"description"`
	StoreID            string                 `bun:"store_id,notnull"`
	CategoryID         string                 `bun:"category_id"`
	Available          *bool                  `bun:"available"`
	DisplayOrder       int                    `bun:"display_order,notnull"`
	Images             []api.ProductImage     `bun:"images,type:json"`
	Variations         []api.ProductVariation `bun:"variations,type:json"`
	CreatedAt          time.Time              `bun:"created_at,notnull"`
	UpdatedAt          time.Time              `bun:"updated_at,notnull"`
}

func (r productRow) toAPI(category *api.Category) api.Product {
	images := r.Images
	if images == nil {
		images = []api.ProductImage{}
	}
	variations := r.Variations
	if variations == nil {
		variations = []api.ProductVariation{}
	}
	return api.Product{
		ID:                 r.ID,
		Title:              r.Title,
		Price:              r.Price,
		PromotionalPrice:   r.PromotionalPrice,
		ShowPromotionBadge: r.ShowPromotionBadge,
		Description:        r.Description,
		StoreID:            r.StoreID,
		Category:           category,
		Available:          r.Available != nil && *r.Available,
		DisplayOrder:       r.DisplayOrder,
		Images:             images,
		Variations:         variations,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// Storefront event kinds.
const (
	eventStoreAccess       = "STORE_ACCESS"
	eventProductClick      = "PRODUCT_CLICK"
	eventProductConversion = "PRODUCT_CONVERSION"
)

type eventRow struct {
	bun.BaseModel `bun:"table:store_events"`

	ID         int64     `bun:"id,pk,autoincrement"`
	StoreID    string    `bun:"store_id,notnull"`
	Kind       string    `bun:"kind,notnull"`
	EntityID   string    `bun:"entity_id"`
	OccurredAt time.Time `bun:"occurred_at,notnull"`
}

type billingRow struct {
	bun.BaseModel `bun:"table:billings"`

	ID           string           `bun:"id,pk"`
	StoreID      string           `bun:"store_id,notnull"`
	PaymentURL   string           `bun:"payment_url"`
	Price        int64            `bun:"price,notnull"`
	PayingPlan   api.PayingPlan   `bun:"paying_plan,notnull"`
	PlanDuration api.PlanDuration `bun:"plan_duration,notnull"`
	ExpiresAt    time.Time        `bun:"expires_at"`
	ExternalID   string           `bun:"external_id"`
	CreatedAt    time.Time        `bun:"created_at,notnull"`
}

func (r billingRow) toAPI() api.Billing {
	return api.Billing{
		ID:           r.ID,
		PaymentURL:   r.PaymentURL,
		Price:        r.Price,
		PayingPlan:   r.PayingPlan,
		PlanDuration: r.PlanDuration,
		ExpiresAt:    r.ExpiresAt,
		ExternalID:   r.ExternalID,
	}
}

var models = []any{
	(*storeRow)(nil),
	(*storeUserRow)(nil),
	(*categoryRow)(nil),
	(*productRow)(nil),
	(*eventRow)(nil),
	(*billingRow)(nil),
}

package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ImagePayload is an encoded upload produced outside this package.
type ImagePayload struct {
	Base64Image  string `json:"base64Image"`
	FileName     string `json:"fileName"`
	ContentType  string `json:"contentType"`
	DisplayOrder *int   `json:"displayOrder,omitempty"`
}

type VariationPayload struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

// CreateStoreRequest registers a new store for the authenticated user.
type CreateStoreRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"`
	Instagram   string `json:"instagram,omitempty"`
	Facebook    string `json:"facebook,omitempty"`
	CNPJ        string `json:"cnpj,omitempty"`
}

func (r CreateStoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Slug, validation.Required),
	)
}

// UpdateStoreRequest is a partial changeset; nil fields are left unchanged.
type UpdateStoreRequest struct {
	Name        *string       `json:"name,omitempty"`
	Slug        *string       `json:"slug,omitempty"`
	Description *string       `json:"description,omitempty"`
	Street      *string       `json:"street,omitempty"`
	City        *string       `json:"city,omitempty"`
	State       *string       `json:"state,omitempty"`
	ZipCode     *string       `json:"zipCode,omitempty"`
	PhoneNumber *string       `json:"phoneNumber,omitempty"`
	Email       *string       `json:"email,omitempty"`
	Instagram   *string       `json:"instagram,omitempty"`
	Facebook    *string       `json:"facebook,omitempty"`
	Logo        *ImagePayload `json:"logo,omitempty"`
}

// UpdateThemeConfigRequest changes how the storefront looks.
type UpdateThemeConfigRequest struct {
	PrimaryColor         *string         `json:"primaryColor,omitempty"`
	ThemeMode            *ThemeMode      `json:"themeMode,omitempty"`
	PrimaryFont          *string         `json:"primaryFont,omitempty"`
	SecondaryFont        *string         `json:"secondaryFont,omitempty"`
	RoundedLevel         *RoundedLevel   `json:"roundedLevel,omitempty"`
	ProductCardShadow    *string         `json:"productCardShadow,omitempty"`
	Logo                 *ImagePayload   `json:"logo,omitempty"`
	BannerDesktop        *ImagePayload   `json:"bannerDesktop,omitempty"`
	BannerTablet         *ImagePayload   `json:"bannerTablet,omitempty"`
	BannerMobile         *ImagePayload   `json:"bannerMobile,omitempty"`
	BackgroundType       *BackgroundType `json:"backgroundType,omitempty"`
	BackgroundEnabled    *bool           `json:"backgroundEnabled,omitempty"`
	BackgroundOpacity    *float64        `json:"backgroundOpacity,omitempty"`
	BackgroundColor      *string         `json:"backgroundColor,omitempty"`
	BackgroundConfigJSON *string         `json:"backgroundConfigJson,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	StoreID     string        `json:"storeId"`
	Image       *ImagePayload `json:"image,omitempty"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.StoreID, validation.Required),
	)
}

type UpdateCategoryRequest struct {
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	Image       *ImagePayload `json:"image,omitempty"`
}

// CreateProductRequest prices are integer cents.
type CreateProductRequest struct {
	Title              string             `json:"title"`
	Price              int64              `json:"price"`
	PromotionalPrice   *int64             `json:"promotionalPrice,omitempty"`
	ShowPromotionBadge *bool              `json:"showPromotionBadge,omitempty"`
	Description        string             `json:"description,omitempty"`
	StoreID            string             `json:"storeId"`
	CategoryID         string             `json:"categoryId"`
	Available          *bool              `json:"available,omitempty"`
	Images             []ImagePayload     `json:"images,omitempty"`
	Variations         []VariationPayload `json:"variations,omitempty"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Price, validation.Min(int64(0))),
		validation.Field(&r.StoreID, validation.Required),
		validation.Field(&r.CategoryID, validation.Required),
	)
}

type UpdateProductRequest struct {
	Title              *string            `json:"title,omitempty"`
	Price              *int64             `json:"price,omitempty"`
	PromotionalPrice   *int64             `json:"promotionalPrice,omitempty"`
	ShowPromotionBadge *bool              `json:"showPromotionBadge,omitempty"`
	Description        *string            `json:"description,omitempty"`
	CategoryID         *string            `json:"categoryId,omitempty"`
	Available          *bool              `json:"available,omitempty"`
	Images             []ImagePayload     `json:"images,omitempty"`
	Variations         []VariationPayload `json:"variations,omitempty"`
}

type CreateBillingRequest struct {
	PayingPlan   PayingPlan   `json:"payingPlan"`
	PlanDuration PlanDuration `json:"planDuration"`
}

func (r CreateBillingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PayingPlan, validation.Required, validation.In(PlanBasic, PlanPro)),
		validation.Field(&r.PlanDuration, validation.Required, validation.In(DurationMonthly, DurationYearly)),
	)
}

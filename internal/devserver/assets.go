package devserver

import (
	"net/url"
	"path"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/api"
)

// assetURL stands in for the upload pipeline: the payload is not stored, a
// stable public URL is minted for it instead.
func (s *Server) assetURL(folder string, payload *api.ImagePayload) string {
	if payload == nil {
		return ""
	}
	name := path.Base(payload.FileName)
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	return s.assetBaseURL + "/" + folder + "/" + uuid.NewString() + "/" + url.PathEscape(name)
}

func (s *Server) productImages(payloads []api.ImagePayload) []api.ProductImage {
	now := s.timestamp()
	images := make([]api.ProductImage, 0, len(payloads))
	for i := range payloads {
		order := i + 1
		if payloads[i].DisplayOrder != nil {
			order = *payloads[i].DisplayOrder
		}
		images = append(images, api.ProductImage{
			ID:           uuid.NewString(),
			URL:          s.assetURL("products", &payloads[i]),
			DisplayOrder: order,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return images
}

func (s *Server) productVariations(payloads []api.VariationPayload) []api.ProductVariation {
	now := s.timestamp()
	variations := make([]api.ProductVariation, 0, len(payloads))
	for _, p := range payloads {
		variations = append(variations, api.ProductVariation{
			ID:        uuid.NewString(),
			Title:     p.Title,
			ImageURL:  p.ImageURL,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return variations
}

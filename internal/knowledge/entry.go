// Package knowledge provides the tenant-partitioned in-memory knowledge
// store and its typed entries.
package knowledge

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rudud-ai/knowledge-engine/internal/storage"
)

// Kind discriminates the payload of an Entry.
type Kind string

const (
	KindProduct Kind = "product"
	KindFAQ     Kind = "faq"
	KindPolicy  Kind = "policy"
	KindOrder   Kind = "order"
)

// ImageStatus reports whether a product has usable catalog images.
type ImageStatus string

const (
	ImagesAvailable   ImageStatus = "available"
	ImagesUnavailable ImageStatus = "unavailable"
)

// Entry is the atomic unit of retrieval. Kind selects which attribute
// struct is populated; Text is a denormalized blob used exclusively for
// lexical scoring.
type Entry struct {
	Key  string
	Kind Kind
	Text string

	Product *ProductAttributes
	FAQ     *FAQAttributes
	Policy  *PolicyAttributes
	Order   *OrderAttributes
}

// ProductAttributes holds the structured product payload.
type ProductAttributes struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	Images      []string
	ImageStatus ImageStatus
	ImageCount  int
	Variants    []VariantAttributes
}

// VariantAttributes holds one product variant.
type VariantAttributes struct {
	ID     uuid.UUID
	Name   string
	Type   storage.VariantType
	Price  float64
	Stock  int
	Images []string
}

// FAQAttributes holds a question/answer pair.
type FAQAttributes struct {
	Question string
	Answer   string
}

// PolicyAttributes holds a policy document.
type PolicyAttributes struct {
	Title string
	Body  string
}

// OrderAttributes holds a customer order summary.
type OrderAttributes struct {
	ID           uuid.UUID
	Status       string
	Total        float64
	ProductNames []string
	CreatedAt    time.Time
}

// HasVariantOfType reports whether the product has at least one variant of
// the given type.
func (p *ProductAttributes) HasVariantOfType(t storage.VariantType) bool {
	for _, v := range p.Variants {
		if v.Type == t {
			return true
		}
	}
	return false
}

// InStock reports whether the product or any of its variants has positive
// stock.
func (p *ProductAttributes) InStock() bool {
	if p.Stock > 0 {
		return true
	}
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return true
		}
	}
	return false
}

// NewProductEntry builds a product entry from a catalog record. The image
// column is parsed defensively; on failure the placeholder set is used and
// the availability status reflects it.
func NewProductEntry(p storage.Product) Entry {
	images, imagesOK := storage.ParseImageList(p.ImagesRaw)

	attrs := &ProductAttributes{
		ID:          p.ID,
		TenantID:    p.TenantID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Images:      images,
		ImageCount:  len(images),
	}
	if imagesOK {
		attrs.ImageStatus = ImagesAvailable
	} else {
		attrs.ImageStatus = ImagesUnavailable
	}

	for _, v := range p.Variants {
		variantImages, _ := storage.ParseImageList(v.ImagesRaw)
		if v.ImagesRaw == "" {
			variantImages = nil
		}
		attrs.Variants = append(attrs.Variants, VariantAttributes{
			ID:     v.ID,
			Name:   v.Name,
			Type:   v.Type,
			Price:  v.Price,
			Stock:  v.Stock,
			Images: variantImages,
		})
	}

	return Entry{
		Key:     fmt.Sprintf("product_%s", p.ID),
		Kind:    KindProduct,
		Text:    productText(p),
		Product: attrs,
	}
}

// productText synthesizes the lexical scoring blob for a product.
func productText(p storage.Product) string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Description != "" {
		b.WriteString(" ")
		b.WriteString(p.Description)
	}
	if p.Category != "" {
		b.WriteString(" ")
		b.WriteString(p.Category)
	}
	fmt.Fprintf(&b, " السعر %.0f جنيه", p.Price)
	if p.Stock > 0 {
		b.WriteString(" متوفر")
	} else {
		b.WriteString(" غير متوفر")
	}
	for _, v := range p.Variants {
		b.WriteString(" ")
		b.WriteString(v.Name)
	}
	return b.String()
}

// NewFAQEntry builds an FAQ entry.
func NewFAQEntry(f storage.FAQ) Entry {
	return Entry{
		Key:  fmt.Sprintf("faq_%d", f.ID),
		Kind: KindFAQ,
		Text: f.Question + " " + f.Answer,
		FAQ: &FAQAttributes{
			Question: f.Question,
			Answer:   f.Answer,
		},
	}
}

// NewPolicyEntry builds a policy entry.
func NewPolicyEntry(p storage.Policy) Entry {
	return Entry{
		Key:  fmt.Sprintf("policy_%d", p.ID),
		Kind: KindPolicy,
		Text: p.Title + " " + p.Body,
		Policy: &PolicyAttributes{
			Title: p.Title,
			Body:  p.Body,
		},
	}
}

// NewOrderEntry wraps an order record as a retrievable entry. Order entries
// are built on demand per query and never stored.
func NewOrderEntry(o storage.Order) Entry {
	text := fmt.Sprintf("طلب %s الحاله %s الاجمالي %.0f جنيه %s",
		o.ID, o.Status, o.Total, strings.Join(o.ProductNames, " "))
	return Entry{
		Key:  fmt.Sprintf("order_%s", o.ID),
		Kind: KindOrder,
		Text: text,
		Order: &OrderAttributes{
			ID:           o.ID,
			Status:       string(o.Status),
			Total:        o.Total,
			ProductNames: o.ProductNames,
			CreatedAt:    o.CreatedAt,
		},
	}
}

// Package catalog exposes the fixed product list the shop sells. The catalog
// is loaded once per process and is read-only afterwards.
package catalog

import "github.com/nexusagency/nexus-backend/pkg/money"

// Product is an immutable catalog entry.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	PriceCents  int64    `json:"price_cents"`
	Tags        []string `json:"tags,omitempty"`
}

// Provider resolves products by ID. Lookups are synchronous and never fail
// other than by absence.
type Provider interface {
	GetProduct(id string) (Product, bool)
	List() []Product
}

// StaticProvider serves an in-memory product list in a stable order.
type StaticProvider struct {
	byID  map[string]Product
	order []string
}

// NewStaticProvider indexes products by ID. A later duplicate replaces the
// earlier entry but keeps its position.
func NewStaticProvider(products []Product) *StaticProvider {
	p := &StaticProvider{byID: make(map[string]Product, len(products))}
	for _, product := range products {
		if _, seen := p.byID[product.ID]; !seen {
			p.order = append(p.order, product.ID)
		}
		product.Tags = append([]string(nil), product.Tags...)
		p.byID[product.ID] = product
	}
	return p
}

func (p *StaticProvider) GetProduct(id string) (Product, bool) {
	product, ok := p.byID[id]
	return product, ok
}

// List returns a copy of the catalog in insertion order.
func (p *StaticProvider) List() []Product {
	out := make([]Product, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.byID[id])
	}
	return out
}

// DefaultProducts is the built-in agency catalog used in demo mode and as the
// seed data for fresh databases.
func DefaultProducts() []Product {
	return []Product{
		{ID: "site-vitrine", Name: "Site Vitrine", Description: "Site de présentation jusqu'à 5 pages, responsive et optimisé SEO.", Icon: "globe", PriceCents: money.MustParse("499.00"), Tags: []string{"site"}},
		{ID: "site-ecommerce", Name: "Site E-commerce", Description: "Boutique en ligne complète avec paiement sécurisé et gestion des stocks.", Icon: "shopping-cart", PriceCents: money.MustParse("999.00"), Tags: []string{"site", "boutique"}},
		{ID: "site-sur-mesure", Name: "Site Sur-Mesure", Description: "Application web développée selon vos besoins spécifiques.", Icon: "code", PriceCents: money.MustParse("2499.00"), Tags: []string{"site", "application"}},
		{ID: "maintenance", Name: "Maintenance Mensuelle", Description: "Mises à jour, sauvegardes et support technique chaque mois.", Icon: "wrench", PriceCents: money.MustParse("49.99"), Tags: []string{"service"}},
		{ID: "audit-seo", Name: "Audit SEO", Description: "Analyse complète du référencement avec plan d'action.", Icon: "search", PriceCents: money.MustParse("149.00"), Tags: []string{"service", "seo"}},
		{ID: "logo-design", Name: "Création de Logo", Description: "Identité visuelle avec trois propositions et révisions illimitées.", Icon: "pen-tool", PriceCents: money.MustParse("199.00"), Tags: []string{"design"}},
	}
}

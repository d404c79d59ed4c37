package menu

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Item is a dish or drink that can be put on an order. Name doubles as the
// display key; it is not a stable identifier.
type Item struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

// NewItem builds an item. Negative prices are clamped to zero.
func NewItem(name, description string, price decimal.Decimal) Item {
	if price.IsNegative() {
		price = decimal.Zero
	}
	return Item{Name: name, Description: description, Price: price}
}

// Category groups items and nested categories.
type Category struct {
	Name        string
	Description string
	items       []Item
	children    []*Category
}

func NewCategory(name, description string) *Category {
	return &Category{Name: name, Description: description}
}

// Add appends items to the category and returns it for chaining.
func (c *Category) Add(items ...Item) *Category {
	c.items = append(c.items, items...)
	return c
}

// AddCategory nests sub-categories.
func (c *Category) AddCategory(children ...*Category) *Category {
	c.children = append(c.children, children...)
	return c
}

func (c *Category) Items() []Item {
	return append([]Item(nil), c.items...)
}

func (c *Category) Categories() []*Category {
	return append([]*Category(nil), c.children...)
}

// Catalog is the read-only menu tree built once at startup.
type Catalog struct {
	root    *Category
	flat    []Item
	matcher *Matcher
}

// NewCatalog freezes the given tree. Callers must not mutate root afterwards.
func NewCatalog(root *Category) *Catalog {
	c := &Catalog{root: root}
	collect(root, &c.flat)
	c.matcher = NewMatcher(c.flat)
	return c
}

func collect(cat *Category, out *[]Item) {
	*out = append(*out, cat.items...)
	for _, child := range cat.children {
		collect(child, out)
	}
}

func (c *Catalog) Name() string { return c.root.Name }

// Categories returns the top-level categories.
func (c *Catalog) Categories() []*Category {
	return c.root.Categories()
}

// Items returns every item of the tree, depth first.
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.flat...)
}

// Find looks an item up by name, ignoring case and surrounding spaces.
func (c *Catalog) Find(name string) (Item, bool) {
	name = strings.TrimSpace(name)
	for _, it := range c.flat {
		if strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return Item{}, false
}

// Match resolves free text to an item by keyword scoring.
func (c *Catalog) Match(text string) MatchResult {
	return c.matcher.Match(text)
}

// Default returns the house menu.
func Default() *Catalog {
	dzd := decimal.NewFromInt

	entrees := NewCategory("Entrées", "Pour commencer").Add(
		NewItem("Chorba", "Soupe traditionnelle algérienne", dzd(350)),
		NewItem("Bourek", "Feuilles farcies à la viande", dzd(250)),
		NewItem("Salade Mixte", "Tomates, concombres, oignons", dzd(200)),
	)
	plats := NewCategory("Plats Principaux", "Nos spécialités").Add(
		NewItem("Couscous", "Couscous traditionnel aux légumes", dzd(800)),
		NewItem("Tajine", "Tajine de poulet aux olives", dzd(900)),
		NewItem("Rechta", "Pâtes fraîches sauce blanche", dzd(700)),
		NewItem("Garantita", "Galette de pois chiches", dzd(300)),
	)
	desserts := NewCategory("Desserts", "Pour terminer en beauté").Add(
		NewItem("Baklawa", "Pâtisserie au miel et amandes", dzd(400)),
		NewItem("Makroud", "Gâteau aux dattes et miel", dzd(350)),
		NewItem("Zlabia", "Beignets au miel", dzd(300)),
	)
	boissons := NewCategory("Boissons", "Boissons chaudes et froides").Add(
		NewItem("Thé à la menthe", "Thé traditionnel", dzd(150)),
		NewItem("Café", "Café noir ou au lait", dzd(200)),
		NewItem("Jus d'orange", "Jus frais pressé", dzd(250)),
	)

	root := NewCategory("Menu Principal", "Tous nos plats").
		AddCategory(entrees, plats, desserts, boissons)
	return NewCatalog(root)
}

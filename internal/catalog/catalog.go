package catalog

// Catalog is the read-only product set for the lifetime of one load.
type Catalog struct {
	products   []Product
	index      map[string]int
	categories []Category
	skipped    int
}

// New builds a Catalog. Products violating the catalog invariants (missing id or images,
// negative price, original price below price) and duplicate ids are dropped.
func New(products []Product, categories []Category) *Catalog {
	c := &Catalog{
		products:   make([]Product, 0, len(products)),
		index:      make(map[string]int, len(products)),
		categories: append([]Category(nil), categories...),
	}
	for _, p := range products {
		if _, dup := c.index[p.ID]; dup || !p.valid() {
			c.skipped++
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	if c.categories == nil {
		c.categories = []Category{}
	}
	return c
}

// Fallback is the catalog used when loading fails: no products and a single "All Products" category.
func Fallback() *Catalog {
	return New(nil, []Category{{ID: AllCategoryID, Name: "All Products"}})
}

// Find looks up a product by id.
func (c *Catalog) Find(id string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Filter returns every product for AllCategoryID, otherwise the products whose category equals
// categoryID exactly. Unknown categories yield an empty slice.
func (c *Catalog) Filter(categoryID string) []Product {
	if c == nil {
		return []Product{}
	}
	if categoryID == AllCategoryID {
		return c.Products()
	}
	out := []Product{}
	for _, p := range c.products {
		if p.Category == categoryID {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) Products() []Product {
	if c == nil {
		return []Product{}
	}
	return append([]Product{}, c.products...)
}

func (c *Catalog) Categories() []Category {
	if c == nil {
		return []Category{}
	}
	return append([]Category{}, c.categories...)
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Skipped is the number of products New discarded.
func (c *Catalog) Skipped() int {
	if c == nil {
		return 0
	}
	return c.skipped
}

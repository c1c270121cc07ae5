package catalog

// FallbackCategories is the built-in snapshot served when every category
// fetch strategy fails: a degraded but functional listing beats an error
// page. It is never cached, so the next read retries the network.
func FallbackCategories() []CategoryView {
	return []CategoryView{
		{
			ID:            "1",
			Name:          "Textile, habillement, cuirs et peaux",
			Icon:          "Shirt",
			Subcategories: []string{"Couturiers", "Tailleurs", "Brodeurs", "Maroquiniers", "Cordonniers"},
		},
		{
			ID:            "2",
			Name:          "Bois et ameublement",
			Icon:          "Armchair",
			Subcategories: []string{"Menuisiers", "Ébénistes", "Charpentiers", "Sculpteurs sur bois"},
		},
		{
			ID:            "3",
			Name:          "Métaux",
			Icon:          "Hammer",
			Subcategories: []string{"Forgerons", "Soudeurs", "Ferblantiers", "Bijoutiers"},
		},
		{
			ID:            "4",
			Name:          "Bâtiment et construction",
			Icon:          "Building2",
			Subcategories: []string{"Maçons", "Plombiers", "Électriciens", "Peintres"},
		},
		{
			ID:            "5",
			Name:          "Arts et décoration",
			Icon:          "Palette",
			Subcategories: []string{"Calligraphes", "Céramistes", "Peintres décorateurs", "Sculpteurs"},
		},
		{
			ID:            "6",
			Name:          "Alimentation",
			Icon:          "UtensilsCrossed",
			Subcategories: []string{"Boulangers", "Pâtissiers", "Bouchers", "Fromagers"},
		},
	}
}

package catalog

import (
	"strconv"
	"strings"
)

// CategoryView is the shape the browsing screens render: string ID, icon
// name and the flattened subcategory labels.
type CategoryView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Icon          string   `json:"icon"`
	Subcategories []string `json:"subcategories"`
}

type SubcategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ArtisanView is the card model for artisan listings. Fields the backend
// does not carry get placeholder values so the cards always render.
type ArtisanView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Profession  string  `json:"profession"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Phone       string  `json:"phone"`
	WhatsApp    string  `json:"whatsapp"`
	Address     string  `json:"address"`
	Verified    bool    `json:"verified"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

// MapCategory builds the view for one category, attaching the labels of
// its non-deleted subcategories.
func MapCategory(c Category, subs []Subcategory) CategoryView {
	var labels []string
	for _, sub := range subs {
		if sub.Categorie.ID == c.ID && !sub.Deleted {
			labels = append(labels, sub.Libelle)
		}
	}

	return CategoryView{
		ID:            strconv.Itoa(c.ID),
		Name:          c.Libelle,
		Icon:          IconName(c.Libelle),
		Subcategories: labels,
	}
}

// MapCategories maps and filters: deleted categories never reach the UI.
func MapCategories(cs []Category, subs []Subcategory) []CategoryView {
	views := make([]CategoryView, 0, len(cs))
	for _, c := range cs {
		if c.Deleted {
			continue
		}
		views = append(views, MapCategory(c, subs))
	}
	return views
}

// iconNames maps category labels (by partial match) to the icon set the
// interface uses.
var iconNames = []struct {
	fragment string
	icon     string
}{
	{"agro-alimentaire", "UtensilsCrossed"},
	{"textile", "Shirt"},
	{"bois", "Armchair"},
	{"métaux", "Hammer"},
	{"batiment", "Building2"},
	{"art", "Palette"},
	{"alimentation", "UtensilsCrossed"},
	{"hygiène", "Sparkles"},
	{"audiovisuel", "Video"},
	{"mines", "Mountain"},
}

func IconName(label string) string {
	lower := strings.ToLower(label)
	for _, entry := range iconNames {
		if strings.Contains(lower, entry.fragment) {
			return entry.icon
		}
	}
	return "Palette"
}

// MapArtisan builds the card view. Display name is "prenom nom"; missing
// fields fall back to placeholders rather than empty strings.
func MapArtisan(a Artisan) ArtisanView {
	name := strings.TrimSpace(a.Prenom + " " + a.Nom)
	if name == "" {
		name = "Nom non disponible"
	}

	profession := a.Profession
	if profession == "" {
		profession = a.SousCategorie.Libelle
	}
	if profession == "" {
		profession = "Profession non spécifiée"
	}

	category := a.SousCategorie.Categorie.Libelle
	if category == "" {
		category = "Catégorie inconnue"
	}

	description := a.SousCategorie.Description
	if description == "" {
		description = "Aucune description disponible"
	}

	address := a.Adresse
	if address == "" {
		address = "Localisation non disponible"
	}

	return ArtisanView{
		ID:          strconv.Itoa(a.ID),
		Name:        name,
		Profession:  profession,
		Category:    category,
		Description: description,
		Phone:       a.Telephone,
		WhatsApp:    a.Telephone,
		Address:     address,
		Verified:    true,
		Rating:      4.5,
		ReviewCount: 0,
	}
}

func MapArtisans(as []Artisan) []ArtisanView {
	views := make([]ArtisanView, 0, len(as))
	for _, a := range as {
		views = append(views, MapArtisan(a))
	}
	return views
}

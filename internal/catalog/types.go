// Package catalog covers the ALONU catalog: categories, subcategories and
// artisan listings, with the TTL caching services the browsing screens
// read from.
package catalog

// Category is the backend category DTO, field names as the API emits
// them.
type Category struct {
	ID          int    `json:"idCategorie"`
	Libelle     string `json:"libelle"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Deleted     bool   `json:"deleted"`
}

// Subcategory nests its parent category, mirroring the backend shape.
type Subcategory struct {
	ID          int      `json:"idSousCategorie"`
	Categorie   Category `json:"categories"`
	Libelle     string   `json:"libelle"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Deleted     bool     `json:"deleted"`
}

type Artisan struct {
	ID            int         `json:"idArtisan"`
	SousCategorie Subcategory `json:"sousCategories"`
	Nom           string      `json:"nom"`
	Prenom        string      `json:"prenom"`
	Profession    string      `json:"profession"`
	Telephone     string      `json:"telephone"`
	Email         string      `json:"email,omitempty"`
	Adresse       string      `json:"adresse"`
	NumeroEnr     string      `json:"numeroEnr,omitempty"`
	Actif         bool        `json:"actif"`
	Deleted       bool        `json:"deleted"`
}

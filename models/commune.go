package models

// communes is the fixed set of French Polynesian communes accepted by
// the valuation service. The list mirrors the service's coverage, not
// the full administrative register.
var communes = []string{
	// Tahiti
	"Papeete",
	"Faaa",
	"Punaauia",
	"Pirae",
	"Arue",
	"Mahina",
	"Paea",
	"Papara",
	"Teva I Uta",
	"Taiarapu-Est",
	"Taiarapu-Ouest",
	"Hitiaa O Te Ra",
	// Moorea
	"Moorea-Maiao",
	// Iles Sous-le-Vent
	"Uturoa",
	"Taputapuatea",
	"Tumaraa",
	"Huahine",
	"Tahaa",
	"Bora-Bora",
	"Maupiti",
	// Tuamotu
	"Rangiroa",
	"Fakarava",
	// Marquises
	"Nuku-Hiva",
	"Hiva-Oa",
}

var communeSet = func() map[string]bool {
	m := make(map[string]bool, len(communes))
	for _, c := range communes {
		m[c] = true
	}
	return m
}()

// Communes returns the enumerated commune set, in display order.
func Communes() []string {
	out := make([]string, len(communes))
	copy(out, communes)
	return out
}

// IsValidCommune reports whether the commune belongs to the fixed set.
func IsValidCommune(name string) bool {
	return communeSet[name]
}

package category

// Category is one of the allowed product categories. The same values back
// the catalogs' validation, the schema CHECK constraints and GET /categories.
type Category string

const (
	General         Category = "Médicament Général"
	Antibiotics     Category = "Antibiotiques"
	Analgesics      Category = "Analgésiques"
	Antidepressants Category = "Antidépresseurs"
	Psychiatric     Category = "Traitement Psychique"
	Narcotics       Category = "Morphiniques"
	Cardiovascular  Category = "Cardiovasculaire"
	Digestive       Category = "Digestif"
	Dermatological  Category = "Dermatologique"
	Protection      Category = "Protection"
	Diagnostic      Category = "Diagnostic"
	Equipment       Category = "Équipement"
	Consumable      Category = "Consommable"
)

// All lists the regular product categories in display order.
var All = []Category{
	General,
	Antibiotics,
	Analgesics,
	Antidepressants,
	Psychiatric,
	Narcotics,
	Cardiovascular,
	Digestive,
	Dermatological,
	Protection,
	Diagnostic,
	Equipment,
	Consumable,
}

// Sensitive lists the categories allowed for regulated products.
var Sensitive = []Category{
	Narcotics,
	Psychiatric,
	Antidepressants,
}

// Valid reports whether c belongs to All.
func (c Category) Valid() bool {
	return contains(All, c)
}

// IsSensitive reports whether c belongs to Sensitive.
func (c Category) IsSensitive() bool {
	return contains(Sensitive, c)
}

// Strings returns the values of list as plain strings.
func Strings(list []Category) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = string(c)
	}
	return out
}

func contains(list []Category, c Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

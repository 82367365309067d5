package epg

// etsiCategories translates SFR program categories to ETSI EN 300 468 content
// descriptors. An empty value means the category has no ETSI equivalent.
var etsiCategories = map[string]string{
	"Autre":        "",
	"Cinéma":       "Movie / Drama",
	"Documentaire": "Documentary",
	"Jeunesse":     "Children's / Youth programmes",
	"Magazine":     "Magazines / Reports / Documentary",
	"Série TV":     "Movie / Drama",
	"Spectacle":    "Performing arts",
	"Sport":        "Sports",
	"Téléfilm":     "Movie / Drama",
}

// ETSICategory returns the ETSI equivalent of an SFR category. ok is false for
// categories missing from the table.
func ETSICategory(category string) (etsi string, ok bool) {
	etsi, ok = etsiCategories[category]
	return etsi, ok
}

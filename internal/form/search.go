package form

import (
	"strings"

	"github.com/medoffice/agenda-api/internal/model"
)

// matchPatients filters the directory snapshot by case-insensitive
// substring match over "nom prenom telephone". An empty query matches
// nothing: the result panel stays hidden until the user types.
func matchPatients(patients []*model.Patient, query string) []*model.Patient {
	if query == "" {
		return nil
	}

	needle := strings.ToLower(query)
	var matched []*model.Patient
	for _, p := range patients {
		haystack := strings.ToLower(p.Nom + " " + p.Prenom + " " + p.Telephone)
		if strings.Contains(haystack, needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

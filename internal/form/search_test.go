package form

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medoffice/agenda-api/internal/model"
)

func testDirectory() []*model.Patient {
	return []*model.Patient{
		{Nom: "Benali", Prenom: "Sara", Telephone: "0611111111"},
		{Nom: "Martin", Prenom: "Ben", Telephone: "0622222222"},
		{Nom: "Durand", Prenom: "Luc", Telephone: "0633334444"},
	}
}

func TestMatchPatientsSubstring(t *testing.T) {
	matched := matchPatients(testDirectory(), "ben")

	assert.Len(t, matched, 2)
	assert.Equal(t, "Benali", matched[0].Nom)
	assert.Equal(t, "Martin", matched[1].Nom)
}

func TestMatchPatientsCaseInsensitive(t *testing.T) {
	matched := matchPatients(testDirectory(), "BEN")
	assert.Len(t, matched, 2)
}

func TestMatchPatientsByPhone(t *testing.T) {
	matched := matchPatients(testDirectory(), "3334")

	assert.Len(t, matched, 1)
	assert.Equal(t, "Durand", matched[0].Nom)
}

func TestMatchPatientsNoResults(t *testing.T) {
	assert.Empty(t, matchPatients(testDirectory(), "zzz"))
}

func TestMatchPatientsEmptyQuery(t *testing.T) {
	assert.Nil(t, matchPatients(testDirectory(), ""))
}

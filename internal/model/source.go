package model

// AppointmentSource maps a source id to its display label.
type AppointmentSource struct {
	ID    string `db:"id" json:"id"`
	Label string `db:"label" json:"label"`
}

// SourcePhone is the catalog's default entry; new drafts start on it.
const SourcePhone = "phone"

// DefaultSources seeds the catalog when the table is empty.
var DefaultSources = []AppointmentSource{
	{ID: SourcePhone, Label: "Téléphone"},
	{ID: "website", Label: "Site Web"},
	{ID: "referral", Label: "Recommandation"},
	{ID: "delegue", Label: "Délégué"},
	{ID: "walk_in", Label: "Sans rendez-vous"},
}

type UpdateSourcesRequest struct {
	Sources []AppointmentSource `json:"sources" binding:"required,dive"`
}

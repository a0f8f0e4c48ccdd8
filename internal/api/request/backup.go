package request

// CreateBackup carries the optional labelling for a new backup. Type is a
// free-form label; an empty value defaults to manual downstream.
type CreateBackup struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

package catalog

// Picture is a registered image asset. AltAttribute keeps the source URL and
// doubles as the lookup key when attribute values are resolved to pictures.
type Picture struct {
	ID           string `json:"id"`
	Binary       []byte `json:"binary,omitempty"`
	MimeType     string `json:"mime_type"`
	AltAttribute string `json:"alt_attribute"`
}

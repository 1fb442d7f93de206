package api

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// StatusResponse describes the blocklist currently on disk.
type StatusResponse struct {
	Entries int `json:"entries"`
	// GeneratedAt is the date of the generated section, empty without one.
	GeneratedAt string `json:"generated_at,omitempty"`
	SHA256      string `json:"sha256"`
	Size        int    `json:"size"`
	// SignaturePresent reports whether the signature file exists.
	SignaturePresent bool `json:"signature_present"`
	// SignatureValid is nil when no public key is configured.
	SignatureValid *bool  `json:"signature_valid,omitempty"`
	SignatureError string `json:"signature_error,omitempty"`
	PublicKey      string `json:"public_key,omitempty"`
}

package api

// Clients groups the typed feature modules over one gateway.
type Clients struct {
	Auth   *AuthAPI
	Admin  *AdminAPI
	Upload *UploadAPI
	IFIR   *IFIRAPI
	RA     *RAAPI
}

// NewClients creates the feature modules sharing the gateway c.
func NewClients(c *Client) *Clients {
	return &Clients{
		Auth:   &AuthAPI{c: c},
		Admin:  &AdminAPI{c: c},
		Upload: &UploadAPI{c: c},
		IFIR:   &IFIRAPI{c: c},
		RA:     &RAAPI{c: c},
	}
}

package model

// Credentials is the username and personal access token pair saved on login.
type Credentials struct {
	Username string `json:"username"`
	Token    string `json:"-"`
}

// Complete reports whether both halves of the pair are present.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Token != ""
}

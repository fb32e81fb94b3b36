package master

// Master is an administrative credential, one row per role. It is distinct
// from a storefront user and never serialized with its hash.
type Master struct {
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

package user

// User is a storefront customer. Profile fields may be empty: the order
// workflow creates users from nothing but an email address and the profile is
// filled in later through the update endpoint.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
	Street   string `json:"street"`
	Zip      string `json:"zip"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

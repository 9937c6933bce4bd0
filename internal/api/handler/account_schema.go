package handler

// createAccountRequest is the body of POST /api/admin/create. Absent lifecycle
// flags default to enabled and non-expired.
type createAccountRequest struct {
	Username string `json:"username" validate:"required,max=20"`
	Email    string `json:"email"    validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,maxbytes=72"`

	AccountNonLocked      *bool `json:"account_non_locked"`
	AccountNonExpired     *bool `json:"account_non_expired"`
	CredentialsNonExpired *bool `json:"credentials_non_expired"`
	Enabled               *bool `json:"enabled"`

	CredentialsExpiryDate string `json:"credentials_expiry_date" validate:"omitempty,datetime=2006-01-02"`
	AccountExpiryDate     string `json:"account_expiry_date"     validate:"omitempty,datetime=2006-01-02"`

	TwoFactorEnabled *bool  `json:"two_factor_enabled"`
	SignUpMethod     string `json:"sign_up_method" validate:"omitempty,max=20"`
}

// updateAccountRequest is the body of PUT /api/admin/update-user. Every field
// is optional; an empty password keeps the current one.
type updateAccountRequest struct {
	Username string `json:"username" validate:"omitempty,max=20"`
	Email    string `json:"email"    validate:"omitempty,email,max=50"`
	Password string `json:"password" validate:"omitempty,maxbytes=72"`

	AccountNonLocked      *bool `json:"account_non_locked"`
	AccountNonExpired     *bool `json:"account_non_expired"`
	CredentialsNonExpired *bool `json:"credentials_non_expired"`
	Enabled               *bool `json:"enabled"`

	CredentialsExpiryDate string `json:"credentials_expiry_date" validate:"omitempty,datetime=2006-01-02"`
	AccountExpiryDate     string `json:"account_expiry_date"     validate:"omitempty,datetime=2006-01-02"`

	TwoFactorEnabled *bool  `json:"two_factor_enabled"`
	SignUpMethod     string `json:"sign_up_method" validate:"omitempty,max=20"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// User is an account record as exposed by the upstream admin API.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

const (
	maxNameLength    = 120
	minPasswordChars = 8
)

// RegistrationInput carries the fields for creating an account, either by a
// visitor self-registering or by an admin creating another account.
type RegistrationInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Validate checks the registration fields and returns field-level errors
// keyed by form field name.
func (in *RegistrationInput) Validate() map[string]string {
	errs := map[string]string{}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required."
	case utf8.RuneCountInString(name) > maxNameLength:
		errs["name"] = "Name must be at most 120 characters."
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	if utf8.RuneCountInString(in.Password) < minPasswordChars {
		errs["password"] = "Password must be at least 8 characters."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ProfileUpdateInput carries the fields a signed-in user may change on their
// own account.
type ProfileUpdateInput struct {
	Name  string
	Email string
}

// Validate checks the profile fields and returns field-level errors.
func (in *ProfileUpdateInput) Validate() map[string]string {
	errs := map[string]string{}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required."
	case utf8.RuneCountInString(name) > maxNameLength:
		errs["name"] = "Name must be at most 120 characters."
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// PasswordChangeInput carries a password change request. The current password
// is verified upstream; only the lengths and the confirmation are checked here.
type PasswordChangeInput struct {
	Current string
	New     string
	Confirm string
}

// Validate checks the password change fields and returns field-level errors.
func (in *PasswordChangeInput) Validate() map[string]string {
	errs := map[string]string{}

	if in.Current == "" {
		errs["current_password"] = "Current password is required."
	}
	if utf8.RuneCountInString(in.New) < minPasswordChars {
		errs["new_password"] = "Password must be at least 8 characters."
	}
	if in.Confirm != in.New {
		errs["confirm_password"] = "Passwords must match."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UserUpdateInput carries the fields an admin may change on an account.
type UserUpdateInput struct {
	Name  string
	Email string
	Role  string
}

// Validate checks the update fields and returns field-level errors.
func (in *UserUpdateInput) Validate() map[string]string {
	errs := map[string]string{}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required."
	case utf8.RuneCountInString(name) > maxNameLength:
		errs["name"] = "Name must be at most 120 characters."
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	switch in.Role {
	case "user", "admin":
	default:
		errs["role"] = "Role must be user or admin."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

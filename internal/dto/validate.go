package dto

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

const usernamePattern = `^[A-Za-z][A-Za-z0-9_.]*$`

func required(fe FieldErrors, field, value string) bool {
	if govalidator.IsNull(strings.TrimSpace(value)) {
		fe.Add(field, "This field is required.")
		return false
	}
	return true
}

func maxLength(fe FieldErrors, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		fe.Add(field, "Field cannot be longer than "+strconv.Itoa(max)+" characters.")
	}
}

func checkEmail(fe FieldErrors, field, value string) {
	if !required(fe, field, value) {
		return
	}
	maxLength(fe, field, value, 64)
	if !govalidator.IsEmail(value) {
		fe.Add(field, "Invalid email address.")
	}
}

func checkUsername(fe FieldErrors, field, value string) {
	if !required(fe, field, value) {
		return
	}
	maxLength(fe, field, value, 64)
	if !govalidator.Matches(value, usernamePattern) {
		fe.Add(field, "Usernames must have only letters, numbers, dots or underscores.")
	}
}

func checkNewPassword(fe FieldErrors, password, password2 string) {
	required(fe, "password2", password2)
	if !required(fe, "password", password) {
		return
	}
	if password != password2 {
		fe.Add("password", "Passwords must match.")
	}
}

// NormalizeEmail is how every address is compared and stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

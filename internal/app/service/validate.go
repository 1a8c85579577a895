package service

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/proditto/portfolio-api/internal/common"
)

var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type field struct {
	name  string
	value string
}

// validateRequired reports every blank field in one message so clients see
// the full list, not the first miss.
func validateRequired(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return common.NewError(common.ErrValidation, "Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func validateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return common.NewError(common.ErrValidation, "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return common.NewError(common.ErrValidation, "Password must be at least 6 characters long")
	}
	return nil
}

func validateURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func trimAll(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		trimmed = append(trimmed, strings.TrimSpace(v))
	}
	return trimmed
}

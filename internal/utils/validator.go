package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Kosench/shortlink-service/internal/errors"
)

const MaxURLLength = 2048

var (
	aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

	blockedSchemes = map[string]bool{
		"javascript": true,
		"vbscript":   true,
		"data":       true,
		"file":       true,
	}

	// Top-level route segments that a short code would shadow.
	reservedAliases = map[string]bool{
		"api":     true,
		"g":       true,
		"metrics": true,
	}

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("alias", func(fl validator.FieldLevel) bool {
		return aliasPattern.MatchString(fl.Field().String())
	})

	return v
}

// ValidateURL checks that rawURL is an absolute URI with a scheme.
func ValidateURL(rawURL string) error {
	return validateURLField("fullUrl", rawURL)
}

func validateURLField(field, rawURL string) error {
	if rawURL == "" {
		return apperrors.InvalidURL(field, "URL cannot be empty")
	}

	if len(rawURL) > MaxURLLength {
		return apperrors.InvalidURL(field, "URL is too long (max 2048 characters)")
	}

	if err := validate.Var(rawURL, "url"); err != nil {
		return apperrors.InvalidURL(field, "invalid URL format")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return apperrors.InvalidURL(field, "invalid URL format")
	}

	if blockedSchemes[strings.ToLower(parsedURL.Scheme)] {
		return apperrors.InvalidURL(field, "URL scheme is not allowed")
	}

	return nil
}

// ValidateLinkURL validates the url of a link group entry.
func ValidateLinkURL(rawURL string) error {
	return validateURLField("url", rawURL)
}

// ValidateAlias enforces ^[a-zA-Z0-9_-]{3,30}$ on a custom alias.
func ValidateAlias(alias string) error {
	if err := validate.Var(alias, "alias"); err != nil {
		return apperrors.InvalidAlias("alias must be 3-30 characters of letters, digits, '-' or '_'")
	}
	if IsReservedAlias(alias) {
		return apperrors.InvalidAlias(fmt.Sprintf("alias '%s' is reserved", alias))
	}
	return nil
}

// IsReservedAlias reports whether code collides with a fixed route.
func IsReservedAlias(code string) bool {
	return reservedAliases[strings.ToLower(code)]
}

func SanitizeInput(input string) string {
	// Удаляем управляющие символы и обрезаем пробелы
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1 // удаляем символ
		}
		return r
	}, input)

	return strings.TrimSpace(result)
}

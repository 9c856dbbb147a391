package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// isSeparator reports whether r splits words in resource and attribute names.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '/' || r == ' '
}

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, space) trigger capitalization of the next letter.
// Example: "user_profile" -> "UserProfile"
// Example: "api-client" -> "ApiClient"
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	// NoLower keeps existing inner capitals ("userProfile" -> "UserProfile").
	titleCaser := cases.Title(language.English, cases.NoLower)

	var result strings.Builder
	for _, word := range strings.FieldsFunc(s, isSeparator) {
		result.WriteString(titleCaser.String(word))
	}
	return result.String()
}

// ToSnakeCase converts a string to snake_case.
// Uppercase letters are prefixed with underscore and lowercased.
// Existing separators (hyphen, dot, slash, space) are converted to underscores.
// Example: "BlogPost" -> "blog_post"
// Example: "blog-posts" -> "blog_posts"
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	prevUnderscore := false
	for i, r := range s {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && !prevUnderscore {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
			prevUnderscore = false
		case isSeparator(r):
			if !prevUnderscore && result.Len() > 0 {
				result.WriteRune('_')
				prevUnderscore = true
			}
		default:
			result.WriteRune(r)
			prevUnderscore = false
		}
	}

	return strings.TrimSuffix(result.String(), "_")
}

// ToGoIdentifier converts a name into an exported Go identifier.
// Characters that are not letters or digits are dropped, and a leading digit
// is prefixed with "X".
// Example: "blog-posts" -> "BlogPosts"
// Example: "3_model" -> "X3Model"
func ToGoIdentifier(s string) string {
	pascal := ToPascalCase(s)

	var result strings.Builder
	for _, r := range pascal {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}

	ident := result.String()
	if ident == "" {
		return "X"
	}
	if unicode.IsDigit([]rune(ident)[0]) {
		return "X" + ident
	}
	return ident
}

// Pluralize returns the English plural of a singular, lowercase resource name.
// Only regular suffix rules are applied; irregular plurals should be declared
// explicitly as resourceName.
// Example: "person" -> "persons"
// Example: "category" -> "categories"
// Example: "box" -> "boxes"
func Pluralize(s string) string {
	if s == "" {
		return ""
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "s"),
		strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return s + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(rune(lower[len(lower)-2])):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiou", r)
}

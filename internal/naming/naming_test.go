package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "single lowercase letter", input: "a", want: "A"},
		{name: "snake_case simple", input: "user_profile", want: "UserProfile"},
		{name: "kebab-case simple", input: "api-client", want: "ApiClient"},
		{name: "dot separator", input: "com.example.api", want: "ComExampleApi"},
		{name: "path-like", input: "/api/v1/users", want: "ApiV1Users"},
		{name: "space separated", input: "blog posts", want: "BlogPosts"},
		{name: "camelCase", input: "userProfile", want: "UserProfile"},
		{name: "all caps", input: "API", want: "API"},
		{name: "unicode lowercase", input: "über_user", want: "ÜberUser"},
		{name: "consecutive mixed separators", input: "foo_-bar", want: "FooBar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPascalCase(tt.input))
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "already lowercase", input: "designers", want: "designers"},
		{name: "PascalCase", input: "BlogPost", want: "blog_post"},
		{name: "kebab-case", input: "blog-posts", want: "blog_posts"},
		{name: "separator before capital", input: "blog_Posts", want: "blog_posts"},
		{name: "trailing separator", input: "posts-", want: "posts"},
		{name: "leading separator", input: "-posts", want: "posts"},
		{name: "dots and slashes", input: "a.b/c", want: "a_b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSnakeCase(tt.input))
		})
	}
}

func TestToGoIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "blog-posts", want: "BlogPosts"},
		{input: "3_model", want: "X3Model"},
		{input: "first name", want: "FirstName"},
		{input: "ref$", want: "Ref"},
		{input: "---", want: "X"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ToGoIdentifier(tt.input))
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "person", want: "persons"},
		{input: "designer", want: "designers"},
		{input: "category", want: "categories"},
		{input: "day", want: "days"},
		{input: "box", want: "boxes"},
		{input: "address", want: "addresses"},
		{input: "branch", want: "branches"},
		{input: "wish", want: "wishes"},
		{input: "quiz", want: "quizes"},
		{input: "y", want: "ys"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Pluralize(tt.input))
		})
	}
}

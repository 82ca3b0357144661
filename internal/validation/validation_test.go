package validation_test

import (
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	t.Run("IsBlank", func(t *testing.T) {
		assert.True(t, validation.IsBlank(""))
		assert.True(t, validation.IsBlank("   \t"))
		assert.False(t, validation.IsBlank(" a "))
	})

	t.Run("ContainsDigit", func(t *testing.T) {
		assert.True(t, validation.ContainsDigit("Pepe1"))
		assert.False(t, validation.ContainsDigit("Pepe"))
	})

	t.Run("ContainsSpecialCharacter", func(t *testing.T) {
		for _, s := range []string{"Pepe#", "a@b", "x!", "y/z", "w_"} {
			assert.True(t, validation.ContainsSpecialCharacter(s), s)
		}
		for _, s := range []string{"Pepe", "Jean-Luc", "O'Neil", "María José"} {
			assert.False(t, validation.ContainsSpecialCharacter(s), s)
		}
	})

	t.Run("IsValidEmail", func(t *testing.T) {
		assert.True(t, validation.IsValidEmail("german@gmail.com"))
		assert.True(t, validation.IsValidEmail("first.last+tag@mail.unq.edu.ar"))
		assert.False(t, validation.IsValidEmail("german@gmail"))
		assert.False(t, validation.IsValidEmail("germangmail.com"))
		assert.False(t, validation.IsValidEmail(""))
	})

	t.Run("IsAbsoluteURL", func(t *testing.T) {
		assert.True(t, validation.IsAbsoluteURL("https://railway.app/x"))
		assert.True(t, validation.IsAbsoluteURL("http://localhost:8080"))
		assert.False(t, validation.IsAbsoluteURL("railway.app/x"))
		assert.False(t, validation.IsAbsoluteURL("https://"))
		assert.False(t, validation.IsAbsoluteURL(""))
	})

	t.Run("ContainsGithubSpecialCharacter", func(t *testing.T) {
		assert.False(t, validation.ContainsGithubSpecialCharacter("unq-pds_app2"))
		assert.True(t, validation.ContainsGithubSpecialCharacter("my repo"))
		assert.True(t, validation.ContainsGithubSpecialCharacter("repo.js"))
		assert.True(t, validation.ContainsGithubSpecialCharacter("añ"))
	})

	t.Run("IsLettersAndSpaces", func(t *testing.T) {
		assert.True(t, validation.IsLettersAndSpaces("Railway Prod"))
		assert.False(t, validation.IsLettersAndSpaces("Railway-1"))
	})
}

func TestRuleMessages(t *testing.T) {
	assert.Equal(t, "must not be blank", validation.PersonName(" "))
	assert.Equal(t, "must not contain digits", validation.PersonName("Ana1"))
	assert.Equal(t, "must not contain special characters", validation.PersonName("Ana#"))
	assert.Empty(t, validation.PersonName("Ana"))

	assert.Equal(t, "must not be blank", validation.Email(""))
	assert.Equal(t, "is not a valid email", validation.Email("ana@"))
	assert.Empty(t, validation.Email("ana@unq.edu.ar"))

	assert.Equal(t, "must not be blank", validation.GithubName(""))
	assert.NotEmpty(t, validation.GithubName("bad name"))
	assert.Empty(t, validation.GithubName("good-name"))
}

func TestValidatorTags(t *testing.T) {
	v := validation.New()

	type body struct {
		Name    string `json:"name" validate:"required,personname"`
		Repo    string `json:"repo" validate:"githubname"`
		URL     string `json:"url" validate:"absurl"`
		Deploy  string `json:"deploy" validate:"lettersspaces"`
		Ignored string `json:"-"`
	}

	require.NoError(t, v.Struct(body{Name: "Ana", Repo: "api", URL: "https://x.io", Deploy: "Prod"}))

	err := v.Struct(body{Name: "Ana1", Repo: "a b", URL: "x.io", Deploy: "Prod1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'name'")
	assert.Contains(t, err.Error(), "'repo'")
	assert.Contains(t, err.Error(), "'url'")
	assert.Contains(t, err.Error(), "'deploy'")
}

func TestRegister(t *testing.T) {
	assert.NotPanics(t, func() { validation.New() })

	v := validator.New()
	err := validation.Register(v, map[string]validator.Func{"": validation.Tags["absurl"]})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register validation tag")

	require.NoError(t, validation.Register(v, validation.Tags))
	assert.NoError(t, v.Var("https://github.com", "absurl"))
	assert.Error(t, v.Var("github.com", "absurl"))
}

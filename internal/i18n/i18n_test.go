package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range english {
		_, ok := persian[key]
		assert.True(t, ok, "persian catalog missing %q", key)
	}
	for key := range persian {
		_, ok := english[key]
		assert.True(t, ok, "english catalog has no %q", key)
	}
}

func TestT(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.Equal(t, "Code: 123456", c.T("en", KeyCode, "123456"))
	assert.Equal(t, "کد: 123456", c.T("fa", KeyCode, "123456"))
	assert.Equal(t, "Use /code p1 to get your current authenticator code.", c.T("en", KeyUseCode, "p1"))
	assert.Equal(t, "Username: u\nPassword: pw", c.T("en", KeyCredentials, "u", "pw"))
}

func TestT_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	c := MustNew()
	assert.Equal(t, "Product not found", c.T("de", KeyProductNotFound))
}

func TestMatch(t *testing.T) {
	c := MustNew()
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"en", "en", true},
		{"fa", "fa", true},
		{"FA", "fa", true},
		{"fa-IR", "fa", true},
		{"en-GB", "en", true},
		{" en ", "en", true},
		{"", "", false},
		{"xx-invalid-!", "", false},
		{"ja", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := c.Match(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Persian", DisplayName("fa"))
	assert.Equal(t, "English", DisplayName("en"))
	assert.Equal(t, "xx", DisplayName("xx"))
}

func TestIsCancel(t *testing.T) {
	c := MustNew()
	assert.True(t, c.IsCancel("Cancel"))
	assert.True(t, c.IsCancel(" Cancel "))
	assert.False(t, c.IsCancel("cancel please"))
}

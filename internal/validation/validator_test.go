package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hotline struct {
	Phone    string `json:"phone" validate:"required,phone"`
	Location string `json:"location" validate:"required"`
}

type sample struct {
	Name    string   `json:"name" validate:"required"`
	Message *string  `json:"message" validate:"omitnil,min=10"`
	Link    string   `json:"link" validate:"omitempty,weburl"`
	Hotline *hotline `json:"hotline" validate:"required"`
}

func ptr(s string) *string { return &s }

func TestDescribeUsesJSONPaths(t *testing.T) {
	v := New()
	err := v.Struct(sample{
		Name:    "x",
		Hotline: &hotline{Phone: "call me", Location: "Paris"},
	})
	ve := v.ValidationErrors(err)
	require.Len(t, ve, 1)
	assert.Equal(t, map[string]string{"hotline.phone": "phone"}, Details(ve))
	assert.Equal(t, "hotline.phone must be a valid phone number.", Describe(ve))
}

func TestMinOnOptionalText(t *testing.T) {
	v := New()
	base := sample{Name: "x", Hotline: &hotline{Phone: "+33 1 23 45 67 89", Location: "Paris"}}

	require.NoError(t, v.Struct(base))

	base.Message = ptr("too short")
	ve := v.ValidationErrors(v.Struct(base))
	require.Len(t, ve, 1)
	assert.Equal(t, "message must be at least 10 characters.", Describe(ve))

	base.Message = ptr("long enough now")
	assert.NoError(t, v.Struct(base))
}

func TestWebURL(t *testing.T) {
	v := New()
	base := sample{Name: "x", Hotline: &hotline{Phone: "5551234567", Location: "NYC"}}

	base.Link = "ftp://files.example.com"
	assert.Error(t, v.Struct(base))

	base.Link = "https://github.com/me/repo"
	assert.NoError(t, v.Struct(base))
}

func TestValidationErrorsIgnoresForeignErrors(t *testing.T) {
	v := New()
	assert.Nil(t, v.ValidationErrors(nil))
	assert.Nil(t, v.ValidationErrors(assert.AnError))
}

func TestClearableURL(t *testing.T) {
	type patch struct {
		Link *string `json:"link" validate:"omitnil,eq=|weburl"`
	}
	v := New()
	assert.NoError(t, v.Struct(patch{}))
	assert.NoError(t, v.Struct(patch{Link: ptr("")}))
	assert.NoError(t, v.Struct(patch{Link: ptr("https://example.com")}))

	ve := v.ValidationErrors(v.Struct(patch{Link: ptr("not a url")}))
	require.Len(t, ve, 1)
	assert.Equal(t, "link must be a valid http(s) URL.", Describe(ve))
}

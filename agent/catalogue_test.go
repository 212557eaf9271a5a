package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueCoversAllOperations(t *testing.T) {
	names := map[string]bool{}
	for _, tool := range Catalogue() {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"add_book", "add_user", "delete_book", "delete_user",
		"add_rental", "return_book", "fetch_data",
		"execute_sql", "mass_execute", "get_current_date",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
	assert.Len(t, names, 10)
}

func TestInputSchema(t *testing.T) {
	tool := Tool{
		Name: "example",
		Parameters: []Parameter{
			{Name: "title", Type: "string", Description: "d", Required: true},
			{Name: "tags", Type: "array", Description: "d", Items: map[string]any{}},
		},
	}

	schema := tool.InputSchema()
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "title")
	assert.Contains(t, props, "tags")

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"title"}, required)
}

func TestInputSchemaNoParameters(t *testing.T) {
	schema := Tool{Name: "bare"}.InputSchema()
	assert.Equal(t, "object", schema["type"])
	_, hasRequired := schema["required"]
	assert.False(t, hasRequired, "empty required list must be omitted")
}

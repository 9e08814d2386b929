package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocument(t *testing.T) {
	doc := SwaggerInfo.ReadDoc()

	var spec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))

	paths, ok := spec["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, paths)

	for _, path := range []string{
		"/",
		"/health",
		"/catalogo/",
		"/producto/{id}/",
		"/solicitar-pedido/",
		"/pedido-exitoso/",
		"/seguimiento/{token}/",
		"/api/v1/admin/orders",
		"/api/v1/admin/orders/{order_id}",
		"/api/v1/admin/orders/{order_id}/status",
		"/api/v1/admin/orders/{order_id}/images",
		"/api/v1/admin/images/{image_id}",
	} {
		assert.Contains(t, paths, path)
	}

	definitions, ok := spec["definitions"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, definitions, "models.ErrorResponse")
	assert.Contains(t, definitions, "models.TrackingResponse")
}

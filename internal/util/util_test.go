package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type podLogsArgs struct {
	Pod       string `json:"pod" description:"Pod name"`
	Namespace string `json:"namespace,omitempty" description:"Namespace" default:"default"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(podLogsArgs{})
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "pod")
	assert.Contains(t, props, "namespace")
	assert.Equal(t, []string{"pod"}, RequiredFields(schema))

	ns := props["namespace"].(map[string]any)
	assert.Equal(t, "default", ns["default"])
}

func TestCreateSchema_NonStruct(t *testing.T) {
	schema := CreateSchema(42)
	assert.Equal(t, "object", schema["type"])
	assert.Nil(t, RequiredFields(schema))
}

func TestRequiredFields_AnySlice(t *testing.T) {
	schema := map[string]any{"required": []any{"a", 1, "b"}}
	assert.Equal(t, []string{"a", "b"}, RequiredFields(schema))
}

func TestValidateParameters(t *testing.T) {
	schema := CreateSchema(podLogsArgs{})

	assert.NoError(t, ValidateParameters(map[string]any{"pod": "web-app-pod"}, schema))
	assert.NoError(t, ValidateParameters(map[string]any{"pod": "p", "namespace": "default"}, schema))

	err := ValidateParameters(map[string]any{"namespace": "default"}, schema)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "pod", vErr.Field)
	assert.Contains(t, vErr.Error(), "required field is missing")

	err = ValidateParameters(map[string]any{"pod": "p", "container": "c"}, schema)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "container", vErr.Field)
	assert.Equal(t, "unexpected field", vErr.Message)

	err = ValidateParameters(map[string]any{"pod": 5}, schema)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "expected type string")
}

func TestApplyDefaults(t *testing.T) {
	schema := CreateSchema(podLogsArgs{})
	in := map[string]any{"pod": "p"}

	out := ApplyDefaults(in, schema)
	assert.Equal(t, "default", out["namespace"])
	assert.NotContains(t, in, "namespace")

	out = ApplyDefaults(map[string]any{"pod": "p", "namespace": "prod"}, schema)
	assert.Equal(t, "prod", out["namespace"])
}

func TestParseAndExecuteTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("pod", "{{.Service}}-pod")
	require.NoError(t, err)

	out, err := ExecuteTemplate(tmpl, struct{ Service string }{"web-app"})
	require.NoError(t, err)
	assert.Equal(t, "web-app-pod", out)

	tmpl, err = ParseTemplate("lower", `{{lower .Service}}`)
	require.NoError(t, err)

	out, err = ExecuteTemplate(tmpl, map[string]any{"Service": "Web"})
	require.NoError(t, err)
	assert.Equal(t, "web", out)

	tmpl, err = ParseTemplate("missing", "{{.Missing}}")
	require.NoError(t, err)

	_, err = ExecuteTemplate(tmpl, map[string]any{})
	assert.Error(t, err)

	_, err = ParseTemplate("broken", "{{.Service")
	assert.Error(t, err)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("copies the initial values", func(t *testing.T) {
		source := map[string]string{"KEY": "value"}
		config := NewConfig(source)

		source["KEY"] = "changed"
		assert.Equal(t, "value", config.Get("KEY"))
	})

	t.Run("handles a nil map", func(t *testing.T) {
		config := NewConfig(nil)
		assert.Equal(t, "", config.Get("MISSING"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("picks up process environment variables", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_KEY", "from-env")

		config := NewConfigFromEnv()
		assert.Equal(t, "from-env", config.Get("CONFIG_TEST_KEY"))
	})

	t.Run("ignores missing env files", func(t *testing.T) {
		config := NewConfigFromEnv("does-not-exist.env")
		require.NotNil(t, config)
	})
}

func TestConfigGet(t *testing.T) {
	config := NewConfig(map[string]string{
		"PORT":    "8080",
		"ENABLED": "true",
		"EMPTY":   "",
	})

	t.Run("returns existing values", func(t *testing.T) {
		assert.Equal(t, "8080", config.Get("PORT"))
	})

	t.Run("returns empty string for missing keys", func(t *testing.T) {
		assert.Equal(t, "", config.Get("MISSING"))
	})

	t.Run("falls back to defaults for missing or empty values", func(t *testing.T) {
		assert.Equal(t, "8080", config.GetWithDefault("PORT", "3000"))
		assert.Equal(t, "3000", config.GetWithDefault("MISSING", "3000"))
		assert.Equal(t, "3000", config.GetWithDefault("EMPTY", "3000"))
	})
}

func TestConfigGetInt(t *testing.T) {
	config := NewConfig(map[string]string{
		"PORT":    "8080",
		"INVALID": "not-a-number",
	})

	t.Run("parses integer values", func(t *testing.T) {
		assert.Equal(t, 8080, config.GetInt("PORT"))
	})

	t.Run("returns zero for unparsable values", func(t *testing.T) {
		assert.Equal(t, 0, config.GetInt("INVALID"))
		assert.Equal(t, 0, config.GetInt("MISSING"))
	})

	t.Run("falls back to defaults only for missing keys", func(t *testing.T) {
		assert.Equal(t, 8080, config.GetIntWithDefault("PORT", 3000))
		assert.Equal(t, 3000, config.GetIntWithDefault("MISSING", 3000))
		assert.Equal(t, 0, config.GetIntWithDefault("INVALID", 3000))
	})
}

func TestConfigGetBool(t *testing.T) {
	config := NewConfig(map[string]string{
		"TRUE_VALUE":  "true",
		"FALSE_VALUE": "false",
		"NUMERIC":     "1",
		"YES":         "yes",
		"ON":          "on",
		"GARBAGE":     "maybe",
	})

	t.Run("parses standard boolean forms", func(t *testing.T) {
		assert.True(t, config.GetBool("TRUE_VALUE"))
		assert.False(t, config.GetBool("FALSE_VALUE"))
		assert.True(t, config.GetBool("NUMERIC"))
	})

	t.Run("accepts common truthy aliases", func(t *testing.T) {
		assert.True(t, config.GetBool("YES"))
		assert.True(t, config.GetBool("ON"))
	})

	t.Run("returns false for garbage and missing values", func(t *testing.T) {
		assert.False(t, config.GetBool("GARBAGE"))
		assert.False(t, config.GetBool("MISSING"))
	})
}

func TestConfigSet(t *testing.T) {
	config := NewConfig(nil)

	config.Set("KEY", "value")
	assert.Equal(t, "value", config.Get("KEY"))

	config.Set("KEY", "updated")
	assert.Equal(t, "updated", config.Get("KEY"))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_RequiresSecretInProduction(t *testing.T) {
	assert.Error(t, Config{Env: "production"}.Validate())
	assert.NoError(t, Config{Env: "production", JWTSecret: "s3cret"}.Validate())
	assert.NoError(t, Config{Env: "development"}.Validate())
}

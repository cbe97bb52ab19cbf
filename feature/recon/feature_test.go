package recon

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"reconciler/core/profile"
	"reconciler/core/storage/mocks"
)

func TestFeature(t *testing.T) {
	client := new(mocks.Client)
	feature := NewFeature(profile.Options{}, client, "datasets", zap.NewNop())

	assert.Equal(t, "recon", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	assert.NoError(t, feature.Load(app))
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink/pkg/config"
)

type sampleConfig struct {
	Name    string        `env:"BLOODLINK_TEST_NAME" envDefault:"bloodlink"`
	Timeout time.Duration `env:"BLOODLINK_TEST_TIMEOUT" envDefault:"10s"`
	Secret  string        `env:"BLOODLINK_TEST_SECRET,required,notEmpty"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults and required values", func(t *testing.T) {
		t.Setenv("BLOODLINK_TEST_SECRET", "s3cret")

		var cfg sampleConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "bloodlink", cfg.Name)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.Equal(t, "s3cret", cfg.Secret)
	})

	t.Run("environment overrides default", func(t *testing.T) {
		t.Setenv("BLOODLINK_TEST_SECRET", "x")
		t.Setenv("BLOODLINK_TEST_TIMEOUT", "2s")

		var cfg sampleConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 2*time.Second, cfg.Timeout)
	})

	t.Run("missing required value", func(t *testing.T) {
		t.Setenv("BLOODLINK_TEST_SECRET", "")

		var cfg sampleConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *sampleConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})
}

func TestMustLoadPanics(t *testing.T) {
	t.Setenv("BLOODLINK_TEST_SECRET", "")

	var cfg sampleConfig
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}

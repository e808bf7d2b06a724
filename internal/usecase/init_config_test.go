package usecase_test

import (
	"context"
	"testing"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/testutil"
	"github.com/runoshun/taskflow/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Execute(t *testing.T) {
	t.Run("creates project config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		cfg := domain.NewDefaultConfig()

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{Config: cfg})

		require.NoError(t, err)
		assert.Equal(t, "/work/.taskflow.toml", out.Path)
		assert.True(t, manager.InitProjectCalled)
		assert.False(t, manager.InitGlobalCalled)
		assert.Same(t, cfg, manager.InitConfig)
	})

	t.Run("creates global config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{Global: true})

		require.NoError(t, err)
		assert.Equal(t, "/home/test/.config/taskflow/config.toml", out.Path)
		assert.False(t, manager.InitProjectCalled)
		assert.True(t, manager.InitGlobalCalled)
		assert.Equal(t, domain.NewDefaultConfig(), manager.InitConfig, "defaults when no config is given")
	})

	t.Run("returns error when project config already exists", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.ProjectInfo.Exists = true
		manager.InitProjectErr = domain.ErrConfigExists

		uc := usecase.NewInitConfig(manager)
		_, err := uc.Execute(context.Background(), usecase.InitConfigInput{})

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})

	t.Run("returns error when global config already exists", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.GlobalInfo.Exists = true
		manager.InitGlobalErr = domain.ErrConfigExists

		uc := usecase.NewInitConfig(manager)
		_, err := uc.Execute(context.Background(), usecase.InitConfigInput{Global: true})

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}

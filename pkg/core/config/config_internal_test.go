//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigPathDefault(t *testing.T) {
	os.Unsetenv(ConfigPathEnv)
	assert.Equal(t, ConfigDefaultPath, getConfigPath())

	os.Setenv(ConfigPathEnv, "/etc/portalguard")
	defer os.Unsetenv(ConfigPathEnv)
	assert.Equal(t, "/etc/portalguard", getConfigPath())
}

func TestGetConfigFileNameDefault(t *testing.T) {
	os.Unsetenv(ConfigFileNameEnv)
	assert.Equal(t, ConfigDefaultFilename, getConfigFileName())

	os.Setenv(ConfigFileNameEnv, "custom-config")
	defer os.Unsetenv(ConfigFileNameEnv)
	assert.Equal(t, "custom-config", getConfigFileName())
}

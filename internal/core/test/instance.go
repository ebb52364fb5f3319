//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package test

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/balaipom/portalguard/internal/core/auditlog"
	"github.com/balaipom/portalguard/pkg/core"
	"github.com/balaipom/portalguard/pkg/core/config"
	"github.com/balaipom/portalguard/pkg/core/options"
	"github.com/balaipom/portalguard/pkg/core/types"
)

// TestConfigFilename is the name of the test configuration file (without extension).
const TestConfigFilename = "pgd-config"

// GetTestdataPath returns the absolute path to the testdata directory.
// This uses runtime.Caller to locate the source file and compute the path
// relative to it, ensuring tests work regardless of the working directory.
func GetTestdataPath() string {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		// Fallback to relative path if runtime.Caller fails
		return "testdata"
	}
	// thisFile is internal/core/test/instance.go
	// We need to go up 3 levels to reach the project root, then into testdata
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(thisFile))))
	return filepath.Join(projectRoot, "testdata")
}

// SetupTestConfig configures the environment to use the test configuration.
// This sets both PGD_CONFIG_PATH and PGD_CONFIG_FILENAME to ensure tests
// use the correct configuration regardless of user environment variables.
func SetupTestConfig() error {
	if err := os.Setenv(config.ConfigPathEnv, GetTestdataPath()); err != nil {
		return err
	}
	if err := os.Setenv(config.ConfigFileNameEnv, TestConfigFilename); err != nil {
		return err
	}
	return nil
}

// NewTestGuard - instantiates a guard suitable for unit-testing.
// It uses the test configuration from the testdata directory.
func NewTestGuard(depth int) (core.Guard, chan *types.AccessRecord, error) {
	if err := SetupTestConfig(); err != nil {
		return nil, nil, err
	}

	ch := make(chan *types.AccessRecord, depth)
	guard, err := core.NewGuard(
		options.WithAuditLog(auditlog.NewChannelLogger(ch)),
	)
	if err != nil {
		return nil, nil, err
	}

	return guard, ch, nil
}

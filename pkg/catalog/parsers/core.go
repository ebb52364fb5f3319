//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package parsers loads access catalog bundles from versioned YAML
// files. The preamble (apiVersion/kind) selects the concrete parser.
package parsers

import (
	"fmt"
	"io"
	"os"

	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/balaipom/portalguard/pkg/catalog/parsers/v1"

	"gopkg.in/yaml.v3"
)

// Preamble represents the header information of a catalog bundle file
type Preamble struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
}

// Load loads an access catalog from a file path
func Load(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path) // #nosec G304 -- CLI tool intentionally reads user-provided paths
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var preamble Preamble

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, &preamble)
	if err != nil {
		return nil, err
	}

	if preamble.Kind != "AccessCatalog" {
		return nil, fmt.Errorf("expected AccessCatalog got %s", preamble.Kind)
	}

	switch preamble.APIVersion {
	case "portalguard.balaipom.go.id/v1":
		return v1.Load(path)
	}

	return nil, fmt.Errorf("unsupported AccessCatalog API Version %s", preamble.APIVersion)
}

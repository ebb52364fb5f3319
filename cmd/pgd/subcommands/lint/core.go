//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package lint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/balaipom/portalguard/pkg/catalog/parsers"
	"github.com/balaipom/portalguard/pkg/catalog/registry"
	"github.com/urfave/cli/v3"
)

// Execute validates AccessCatalog YAML bundles: file syntax, schema
// shape, and the cross-reference rules the registry enforces (unique
// keys, leaf paths, grants naming declared keys).
func Execute(ctx context.Context, cmd *cli.Command) error {
	files := cmd.StringSlice("file")
	if len(files) == 0 {
		return fmt.Errorf("no files specified, use --file/-f to specify catalog bundles to lint")
	}

	fmt.Println("Linting catalog bundles...")
	fmt.Println()

	errorCount := 0
	var parsed []string
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file))
		if ext != ".yml" && ext != ".yaml" {
			fmt.Printf("⚠ %s: Unsupported file type (only .yml, .yaml supported)\n", file)
			continue
		}

		if _, err := parsers.Load(file); err != nil {
			errorCount++
			fmt.Printf("✗ %s\n", file)
			fmt.Printf("  Error: %s\n", err)
			fmt.Println()
			continue
		}

		fmt.Printf("✓ %s: Valid bundle\n", file)
		parsed = append(parsed, file)
	}

	if len(parsed) > 0 {
		errorCount += validateCrossReferences(parsed)
	}

	fmt.Println("---")
	if errorCount > 0 {
		fmt.Printf("Linting completed: %d error(s)\n", errorCount)
		return fmt.Errorf("linting failed: %d error(s)", errorCount)
	}

	fmt.Printf("All checks passed: %d file(s) validated successfully\n", len(parsed))
	return nil
}

func validateCrossReferences(files []string) int {
	_, err := registry.NewRegistry(files)
	if err == nil {
		return 0
	}

	var verrs *registry.Errors
	if errors.As(err, &verrs) {
		for _, ve := range verrs.Errors {
			fmt.Printf("✗ %s\n", ve.Error())
		}
		fmt.Println()
		return verrs.Count()
	}

	fmt.Printf("✗ Bundle validation failed: %s\n", err.Error())
	fmt.Println()
	return 1
}

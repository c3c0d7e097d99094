package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tidal/internal/driver"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new tidal project",
	Long: `Initialize a new tidal project by creating a project manifest (tidal.toml)
and a hello-world source file (main.td). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const initManifest = `[package]
name = %q

[build]
sources = ["main.td"]
out = "dist/%s.js"
`

const initSource = `def greet(name):
    return f"Hello, {name}!"
`

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else if filepath.IsAbs(args[0]) {
		target = args[0]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = filepath.Join(wd, args[0])
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "tidal-project"
	}

	manifestPath := filepath.Join(target, driver.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	manifest := fmt.Sprintf(initManifest, name, name)
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		return err
	}
	sourcePath := filepath.Join(target, "main.td")
	if _, err := os.Stat(sourcePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(sourcePath, []byte(initSource), 0o644); err != nil {
			return err
		}
	}

	fmt.Printf("created %s\n", manifestPath)
	fmt.Printf("created %s\n", sourcePath)
	return nil
}

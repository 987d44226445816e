package config

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

const projectMarkerFile = "edgedb.toml"

// findProjectRoot walks up from start looking for edgedb.toml,
// stopping at a filesystem device boundary (spec §4.4: "within a
// single filesystem device"). It returns ("", false, nil) rather than
// an error when no marker is found anywhere above start — the caller
// decides whether that's fatal.
//
// crypto/sha1 and a raw os.Stat device-boundary walk are stdlib: no
// ecosystem hashing or directory-walk library appears anywhere in the
// retrieved corpus for this narrow a task (see DESIGN.md).
func findProjectRoot(start string) (string, bool, error) {
	dir := start
	startDev, err := deviceOf(dir)
	if err != nil {
		return "", false, wrapConfigError("failed to stat starting directory", err)
	}

	for {
		marker := filepath.Join(dir, projectMarkerFile)
		if _, err := os.Stat(marker); err == nil {
			return dir, true, nil
		} else if !os.IsNotExist(err) {
			return "", false, wrapConfigError("failed to stat edgedb.toml candidate", err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dev, err := deviceOf(parent)
		if err != nil || dev != startDev {
			return "", false, nil
		}
		dir = parent
	}
}

// stashKey computes the content-addressed directory name for a
// project root: SHA-1 hex of the realpath, optionally Windows-quirked
// per spec §4.4 ("when hashing a realpath that does not start with
// \\, prepend \\?\"), joined with the root's basename.
func stashKey(root string) (string, error) {
	real, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", wrapConfigError("failed to resolve project root realpath", err)
	}
	hashInput := real
	if strings.HasPrefix(os.Getenv("OS"), "Windows") && !strings.HasPrefix(real, `\\`) {
		hashInput = `\\?\` + real
	}
	sum := sha1.Sum([]byte(hashInput))
	return hex.EncodeToString(sum[:]) + "-" + filepath.Base(real), nil
}

// stashDir returns the per-project stash directory under the platform
// config root (<config_root>/projects/<stashKey>).
func stashDir(configRoot, root string) (string, error) {
	key, err := stashKey(root)
	if err != nil {
		return "", err
	}
	return filepath.Join(configRoot, "projects", key), nil
}

// readStashedInstanceName reads <stash>/instance-name.
func readStashedInstanceName(stash string) (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(stash, "instance-name"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, wrapConfigError("failed to read stashed instance name", err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

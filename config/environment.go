package config

import (
	"os"

	"github.com/adrg/xdg"
)

// osEnvironment is the production Environment: thin pass-through to
// the os package for env vars and cwd, and to adrg/xdg (the platform
// config dir library depot-cli's own config package uses) for the
// config root the stash directory and credentials file live under.
type osEnvironment struct{}

// OSEnvironment returns the Environment backed by the real process
// state. Callers that don't need to fake env vars or cwd for a test
// pass this to Resolve.
func OSEnvironment() Environment { return osEnvironment{} }

func (osEnvironment) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (osEnvironment) Getwd() (string, error)              { return os.Getwd() }
func (osEnvironment) UserConfigDir() (string, error)      { return xdg.ConfigHome, nil }

package config

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	defaultHost     = "localhost"
	defaultPort     = 5656
	defaultDatabase = "edgedb"
	defaultUser     = "edgedb"
)

func validateHost(host string) error {
	if host == "" {
		return newConfigError("host must not be empty")
	}
	if strings.ContainsAny(host, "/,") {
		return newConfigError("host must not contain '/' or ','")
	}
	return nil
}

func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return newConfigError("port must be in range [1, 65535]")
	}
	return nil
}

func validateDatabase(database string) error {
	if database == "" {
		return newConfigError("database must not be empty")
	}
	return nil
}

func validateUser(user string) error {
	if user == "" {
		return newConfigError("user must not be empty")
	}
	return nil
}

var (
	truthyWords = map[string]bool{"true": true, "t": true, "yes": true, "y": true, "on": true, "1": true}
	falsyWords  = map[string]bool{"false": true, "f": true, "no": true, "n": true, "off": true, "0": true}
)

func parseBoolWord(s string) (bool, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if truthyWords[lower] {
		return true, nil
	}
	if falsyWords[lower] {
		return false, nil
	}
	return false, newConfigError("invalid boolean value " + strconv.Quote(s))
}

// parsePortEnv implements spec §4.4/§8 scenario 6: an EDGEDB_PORT value
// leaked from a Docker container link (the "tcp://host:port" form) is
// ignored rather than parsed, with a warning logged through the same
// hook Component G uses.
func parsePortEnv(raw string, logger *logrus.Entry) (int, bool, error) {
	if strings.HasPrefix(raw, "tcp://") {
		if logger != nil {
			logger.Warnf("ignoring EDGEDB_PORT=%q: looks like a Docker-link URL, not a port", raw)
		}
		return 0, false, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, wrapConfigError("EDGEDB_PORT is not a valid integer", err)
	}
	return port, true, nil
}

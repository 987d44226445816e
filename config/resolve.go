package config

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/sirupsen/logrus"
)

// ResolvedConfig is the fully-resolved, validated connection
// configuration Resolve produces. Every scalar field is sticky: once a
// higher-precedence source sets it, lower-precedence sources are
// ignored (spec §8).
type ResolvedConfig struct {
	Host     sourced[string]
	Port     sourced[int]
	Database sourced[string]
	User     sourced[string]
	Password sourced[string]

	TLSCAFile         sourced[string]
	TLSVerifyHostname sourced[bool]

	ServerSettings map[string]string

	Timeout            time.Duration
	CommandTimeout     time.Duration
	WaitUntilAvailable time.Duration

	TLSConfig *tls.Config
}

const (
	labelExplicit = "explicit options"
	labelEnv      = "environment variable"
	labelProject  = "project-linked instance"
	labelDefault  = "default"
)

// Resolve implements spec §4.4 end to end: explicit options, then
// environment variables, then a project-linked instance, each level
// checked for the compound-options violation before being applied,
// validated, and finally turned into a dialable TLS config.
func Resolve(ctx context.Context, opts Options, env Environment, logger *logrus.Entry) (*ResolvedConfig, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	rc := &ResolvedConfig{
		ServerSettings:     map[string]string{},
		Timeout:            opts.Timeout,
		CommandTimeout:     opts.CommandTimeout,
		WaitUntilAvailable: opts.WaitUntilAvailable,
	}
	for k, v := range opts.ServerSettings {
		rc.ServerSettings[k] = v
	}

	if err := applyLevel(rc, level{
		label:           labelExplicit,
		dsn:             opts.DSN,
		instanceName:    opts.InstanceName,
		credentialsFile: opts.CredentialsFile,
		host:            opts.Host,
		hostSet:         opts.Host != "",
		port:            opts.Port,
		portSet:         opts.Port != 0,
		database:        opts.Database,
		user:            opts.User,
		password:        opts.Password,
		tlsCAFile:       opts.TLSCAFile,
		tlsVerify:       opts.TLSVerifyHostname,
	}, env, logger); err != nil {
		return nil, err
	}

	if err := applyEnvLevel(rc, env, logger); err != nil {
		return nil, err
	}

	if err := applyProjectLevel(rc, env, logger); err != nil {
		return nil, err
	}

	applyDefaults(rc)

	if err := validateResolved(rc); err != nil {
		return nil, err
	}

	tlsConfig, err := buildTLSConfig(rc.TLSCAFile.value, tlsVerifyPointer(rc))
	if err != nil {
		return nil, err
	}
	rc.TLSConfig = tlsConfig

	return rc, nil
}

func tlsVerifyPointer(rc *ResolvedConfig) *bool {
	if !rc.TLSVerifyHostname.isSet {
		return nil
	}
	v := rc.TLSVerifyHostname.value
	return &v
}

// level is one precedence tier's raw inputs, normalized so
// applyLevel can enforce the compound-options rule uniformly across
// explicit options and env vars. The project-linked tier does not use
// it: applyProjectLevel applies its instance name directly.
type level struct {
	label string

	dsn             string
	instanceName    string
	credentialsFile string
	host            string
	hostSet         bool
	port            int
	portSet         bool

	database  string
	user      string
	password  string
	tlsCAFile string
	tlsVerify *bool
}

func (l level) primaryCount() int {
	n := 0
	if l.dsn != "" {
		n++
	}
	if l.instanceName != "" {
		n++
	}
	if l.credentialsFile != "" {
		n++
	}
	if l.hostSet || l.portSet {
		n++
	}
	return n
}

// applyLevel enforces the compound-options rule for one tier, resolves
// whichever of {dsn, instanceName, credentialsFile} is present into
// concrete fields, and applies everything sticky.
func applyLevel(rc *ResolvedConfig, l level, env Environment, logger *logrus.Entry) error {
	if l.primaryCount() > 1 {
		return newConfigError("Cannot have more than one of 'dsn', 'instanceName', 'credentialsFile', 'host'/'port' specified at the same level")
	}

	switch {
	case l.dsn != "":
		parsed, err := parseDSN(l.dsn)
		if err != nil {
			return err
		}
		if parsed.HasHostOrPort {
			rc.Host.setIfNonZero(parsed.Host, parsed.Host != "", l.label)
			rc.Port.setIfNonZero(parsed.Port, parsed.Port != 0, l.label)
		}
		rc.Database.setIfNonZero(parsed.Fields.Database, parsed.Fields.Database != "", l.label)
		rc.User.setIfNonZero(parsed.Fields.User, parsed.Fields.User != "", l.label)
		rc.Password.setIfNonZero(parsed.Fields.Password, parsed.Fields.Password != "", l.label)
		rc.TLSCAFile.setIfNonZero(parsed.Fields.TLSCAFile, parsed.Fields.TLSCAFile != "", l.label)
		if parsed.Fields.TLSVerifyHostname != nil {
			rc.TLSVerifyHostname.set(*parsed.Fields.TLSVerifyHostname, l.label)
		}
		for k, v := range parsed.ServerSettings {
			if _, exists := rc.ServerSettings[k]; !exists {
				rc.ServerSettings[k] = v
			}
		}

	case l.credentialsFile != "":
		if err := applyCredentialsFile(rc, l.credentialsFile, l.label); err != nil {
			return err
		}

	case l.instanceName != "":
		if err := applyInstanceName(rc, l.instanceName, env, l.label); err != nil {
			return err
		}
	}

	rc.Host.setIfNonZero(l.host, l.hostSet, l.label)
	rc.Port.setIfNonZero(l.port, l.portSet, l.label)
	rc.Database.setIfNonZero(l.database, l.database != "", l.label)
	rc.User.setIfNonZero(l.user, l.user != "", l.label)
	rc.Password.setIfNonZero(l.password, l.password != "", l.label)
	rc.TLSCAFile.setIfNonZero(l.tlsCAFile, l.tlsCAFile != "", l.label)
	if l.tlsVerify != nil {
		rc.TLSVerifyHostname.set(*l.tlsVerify, l.label)
	}

	return nil
}

func applyCredentialsFile(rc *ResolvedConfig, path, label string) error {
	creds, err := readCredentialsFile(path)
	if err != nil {
		return err
	}
	rc.Host.setIfNonZero(creds.Host, creds.Host != "", label)
	rc.Port.setIfNonZero(creds.Port, creds.Port != 0, label)
	rc.Database.setIfNonZero(creds.Database, creds.Database != "", label)
	rc.User.setIfNonZero(creds.User, creds.User != "", label)
	rc.Password.setIfNonZero(creds.Password, creds.Password != "", label)
	rc.TLSCAFile.setIfNonZero(creds.TLSCAData, creds.TLSCAData != "", label)
	if creds.TLSVerifyHostname != nil {
		rc.TLSVerifyHostname.set(*creds.TLSVerifyHostname, label)
	}
	return nil
}

func applyInstanceName(rc *ResolvedConfig, instanceName string, env Environment, label string) error {
	configRoot, err := env.UserConfigDir()
	if err != nil {
		return wrapConfigError("failed to resolve platform config directory", err)
	}
	path := credentialsPathForInstance(configRoot, instanceName)
	return applyCredentialsFile(rc, path, label)
}

// applyEnvLevel implements the EDGEDB_* precedence tier.
func applyEnvLevel(rc *ResolvedConfig, env Environment, logger *logrus.Entry) error {
	l := level{label: labelEnv}

	l.dsn, _ = env.LookupEnv("EDGEDB_DSN")
	l.instanceName, _ = env.LookupEnv("EDGEDB_INSTANCE")
	l.credentialsFile, _ = env.LookupEnv("EDGEDB_CREDENTIALS_FILE")
	if host, ok := env.LookupEnv("EDGEDB_HOST"); ok && host != "" {
		l.host = host
		l.hostSet = true
	}
	if portRaw, ok := env.LookupEnv("EDGEDB_PORT"); ok && portRaw != "" {
		port, accepted, err := parsePortEnv(portRaw, logger)
		if err != nil {
			return err
		}
		if accepted {
			l.port = port
			l.portSet = true
		}
	}
	l.database, _ = env.LookupEnv("EDGEDB_DATABASE")
	l.user, _ = env.LookupEnv("EDGEDB_USER")
	l.password, _ = env.LookupEnv("EDGEDB_PASSWORD")
	l.tlsCAFile, _ = env.LookupEnv("EDGEDB_TLS_CA_FILE")
	if verifyRaw, ok := env.LookupEnv("EDGEDB_TLS_VERIFY_HOSTNAME"); ok && verifyRaw != "" {
		v, err := parseBoolWord(verifyRaw)
		if err != nil {
			return err
		}
		l.tlsVerify = &v
	}

	return applyLevel(rc, l, env, logger)
}

// applyProjectLevel implements the project-linked-instance tier: it
// only ever contributes an instanceName, so the compound-options rule
// is vacuous here, but a missing edgedb.toml with nothing else
// resolved yet is the literal scenario 1 ConfigError.
func applyProjectLevel(rc *ResolvedConfig, env Environment, logger *logrus.Entry) error {
	if rc.hasAnyPrimary() {
		return nil
	}

	cwd, err := env.Getwd()
	if err != nil {
		return wrapConfigError("failed to determine working directory", err)
	}
	root, found, err := findProjectRoot(cwd)
	if err != nil {
		return err
	}
	if !found {
		if rc.Host.isSet || rc.Database.isSet {
			return nil
		}
		return newConfigError("no 'edgedb.toml' found and no connection options were provided")
	}

	configRoot, err := env.UserConfigDir()
	if err != nil {
		return wrapConfigError("failed to resolve platform config directory", err)
	}
	stash, err := stashDir(configRoot, root)
	if err != nil {
		return err
	}
	instanceName, found, err := readStashedInstanceName(stash)
	if err != nil {
		return err
	}
	if !found {
		return newConfigError("project is not linked to an instance; run the project's link command first")
	}

	return applyInstanceName(rc, instanceName, env, labelProject)
}

// hasAnyPrimary reports whether any higher-precedence level has
// already resolved a host, database or user, meaning the project-linked
// tier should be skipped entirely.
func (rc *ResolvedConfig) hasAnyPrimary() bool {
	return rc.Host.isSet || rc.Database.isSet || rc.User.isSet
}

func applyDefaults(rc *ResolvedConfig) {
	rc.Host.setIfNonZero(defaultHost, true, labelDefault)
	rc.Port.setIfNonZero(defaultPort, true, labelDefault)
	rc.Database.setIfNonZero(defaultDatabase, true, labelDefault)
	rc.User.setIfNonZero(defaultUser, true, labelDefault)
	rc.TLSVerifyHostname.setIfNonZero(rc.TLSCAFile.value == "", true, labelDefault)
}

func validateResolved(rc *ResolvedConfig) error {
	if err := validateHost(rc.Host.value); err != nil {
		return err
	}
	if err := validatePort(rc.Port.value); err != nil {
		return err
	}
	if err := validateDatabase(rc.Database.value); err != nil {
		return err
	}
	if err := validateUser(rc.User.value); err != nil {
		return err
	}
	return nil
}

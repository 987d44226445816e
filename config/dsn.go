package config

import (
	"net/url"
	"os"
	"strconv"
)

// dsnFields is the scalar subset of Options a DSN can populate. Host
// and port are handled separately since the DSN carries them in its
// authority component rather than as a query parameter.
type dsnFields struct {
	Database          string
	User              string
	Password          string
	TLSCAFile         string
	TLSVerifyHostname *bool
}

// dsnResult is the full outcome of parsing one DSN string.
type dsnResult struct {
	Host           string
	Port           int
	HasHostOrPort  bool
	Fields         dsnFields
	ServerSettings map[string]string
}

// parseDSN implements spec §4.4's DSN grammar: scheme must be
// "edgedb:"; each scalar field may appear plain (?foo=v), indirected
// through an env var (?foo_env=NAME), or a file (?foo_file=path); at
// most one of the three variants per field; unrecognized query keys
// become server-settings entries; duplicate keys are an error.
func parseDSN(dsn string) (*dsnResult, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, wrapConfigError("malformed DSN", err)
	}
	if u.Scheme != "edgedb" {
		return nil, newConfigError("DSN scheme must be 'edgedb'")
	}

	out := &dsnResult{ServerSettings: map[string]string{}}

	if host := u.Hostname(); host != "" {
		out.Host = host
		out.HasHostOrPort = true
	}
	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, wrapConfigError("DSN port is not a valid integer", err)
		}
		out.Port = port
		out.HasHostOrPort = true
	}

	if u.User != nil {
		if name := u.User.Username(); name != "" {
			out.Fields.User = name
		}
		if pw, ok := u.User.Password(); ok {
			out.Fields.Password = pw
		}
	}
	if path := trimLeadingSlash(u.Path); path != "" {
		out.Fields.Database = path
	}

	query, err := parseDSNQuery(u.RawQuery)
	if err != nil {
		return nil, err
	}

	for key, resolved := range query.known {
		switch key {
		case "database":
			out.Fields.Database = resolved
		case "user":
			out.Fields.User = resolved
		case "password":
			out.Fields.Password = resolved
		case "tls_ca_file":
			out.Fields.TLSCAFile = resolved
		case "tls_verify_hostname":
			v, err := parseBoolWord(resolved)
			if err != nil {
				return nil, err
			}
			out.Fields.TLSVerifyHostname = &v
		}
	}
	for key, value := range query.unknown {
		out.ServerSettings[key] = value
	}

	return out, nil
}

func trimLeadingSlash(p string) string {
	if len(p) > 0 && p[0] == '/' {
		return p[1:]
	}
	return p
}

var knownDSNFields = map[string]bool{
	"database": true, "user": true, "password": true,
	"tls_ca_file": true, "tls_verify_hostname": true,
}

type dsnQuery struct {
	known   map[string]string
	unknown map[string]string
}

// parseDSNQuery resolves the plain/_env/_file variant triad for each
// known field and folds everything else into "unknown" (future
// server-settings entries), rejecting duplicate keys and multiple
// variants of the same field.
func parseDSNQuery(raw string) (*dsnQuery, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, wrapConfigError("malformed DSN query string", err)
	}

	out := &dsnQuery{known: map[string]string{}, unknown: map[string]string{}}
	seenBase := map[string]string{} // base field name -> which variant was already seen

	for key, vs := range values {
		if len(vs) > 1 {
			return nil, newConfigError("duplicate DSN query key " + strconv.Quote(key))
		}
		base, variant := splitDSNVariant(key)

		if prevVariant, ok := seenBase[base]; ok {
			return nil, newConfigError("conflicting DSN variants for " + strconv.Quote(base) + ": " + prevVariant + " and " + variant)
		}
		seenBase[base] = variant

		resolved, err := resolveDSNVariant(variant, vs[0])
		if err != nil {
			return nil, err
		}

		if knownDSNFields[base] {
			out.known[base] = resolved
		} else {
			out.unknown[base] = resolved
		}
	}
	return out, nil
}

// splitDSNVariant separates a query key into its field name and which
// of the plain/_env/_file variants it is. A key that is itself a known
// field (e.g. "tls_ca_file") is always "plain": suffix stripping only
// applies when the stripped result names a known field, so the generic
// "_file" suffix can't shadow a scalar field whose own name ends in
// "_file".
func splitDSNVariant(key string) (base, variant string) {
	if knownDSNFields[key] {
		return key, "plain"
	}
	const envSuffix = "_env"
	const fileSuffix = "_file"
	if len(key) > len(envSuffix) && key[len(key)-len(envSuffix):] == envSuffix {
		if stripped := key[:len(key)-len(envSuffix)]; knownDSNFields[stripped] {
			return stripped, "env"
		}
	}
	if len(key) > len(fileSuffix) && key[len(key)-len(fileSuffix):] == fileSuffix {
		if stripped := key[:len(key)-len(fileSuffix)]; knownDSNFields[stripped] {
			return stripped, "file"
		}
	}
	return key, "plain"
}

func resolveDSNVariant(variant, value string) (string, error) {
	switch variant {
	case "plain":
		return value, nil
	case "env":
		v, ok := os.LookupEnv(value)
		if !ok {
			return "", newConfigError("environment variable " + strconv.Quote(value) + " referenced by DSN is not set")
		}
		return v, nil
	case "file":
		b, err := os.ReadFile(value)
		if err != nil {
			return "", wrapConfigError("failed to read DSN _file value", err)
		}
		return string(b), nil
	default:
		return "", newConfigError("unknown DSN variant")
	}
}

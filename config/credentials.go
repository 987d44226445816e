package config

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// credentialsFile is the JSON schema of spec §4.4: field names match
// the wire schema's snake_case exactly, decoded with json-iterator
// rather than encoding/json per SPEC_FULL.md's ambient-stack choice.
type credentialsFile struct {
	Host              string  `json:"host"`
	Port              int     `json:"port"`
	Database          string  `json:"database"`
	User              string  `json:"user"`
	Password          string  `json:"password"`
	TLSCAData         string  `json:"tls_ca_data"`
	TLSVerifyHostname *bool   `json:"tls_verify_hostname"`
}

// readCredentialsFile reads and decodes path.
func readCredentialsFile(path string) (*credentialsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapConfigError("failed to read credentials file", err)
	}
	var c credentialsFile
	if err := jsonAPI.Unmarshal(data, &c); err != nil {
		return nil, wrapConfigError("failed to parse credentials file", err)
	}
	return &c, nil
}

// credentialsPathForInstance resolves the default location of an
// instance's credentials file: <platform_config>/credentials/<name>.json.
func credentialsPathForInstance(configRoot, instanceName string) string {
	return filepath.Join(configRoot, "credentials", instanceName+".json")
}

// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config loads the tool's YAML configuration: the two cloud
// definitions, the database location and the logging configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/yaml.v2"
)

// Cloud holds the connection details for one OpenStack cloud.
type Cloud struct {
	AuthURL            string
	Region             string
	Username           string
	Password           string
	ProjectName        string
	ProjectID          string
	DomainName         string
	UserDomainName     string
	ProjectDomainName  string
	IdentityAPIVersion int
	SkipTLSVerify      bool
}

// Config is the loaded tool configuration.
type Config struct {
	// DatabaseFile is where migration records are stored.
	DatabaseFile string

	// LoggingConfig is a loggo configuration string, e.g.
	// "<root>=INFO;sunbeammigrate.engine=DEBUG".
	LoggingConfig string

	// SourceCloud and DestinationCloud name entries in Clouds.
	SourceCloud      string
	DestinationCloud string

	Clouds map[string]Cloud
}

// Source and Destination return the configured cloud entries. Validate
// guarantees they exist.
func (c Config) Source() Cloud      { return c.Clouds[c.SourceCloud] }
func (c Config) Destination() Cloud { return c.Clouds[c.DestinationCloud] }

var cloudFields = schema.FieldMap(schema.Fields{
	"auth-url":             schema.String(),
	"region":               schema.String(),
	"username":             schema.String(),
	"password":             schema.String(),
	"project-name":         schema.String(),
	"project-id":           schema.String(),
	"domain-name":          schema.String(),
	"user-domain-name":     schema.String(),
	"project-domain-name":  schema.String(),
	"identity-api-version": schema.ForceInt(),
	"skip-tls-verify":      schema.Bool(),
}, schema.Defaults{
	"region":               "",
	"project-name":         "",
	"project-id":           "",
	"domain-name":          "",
	"user-domain-name":     "",
	"project-domain-name":  "",
	"identity-api-version": 3,
	"skip-tls-verify":      false,
})

var configFields = schema.FieldMap(schema.Fields{
	"database-file":     schema.String(),
	"logging-config":    schema.String(),
	"source-cloud":      schema.String(),
	"destination-cloud": schema.String(),
	"clouds":            schema.StringMap(cloudFields),
}, schema.Defaults{
	"database-file":  schema.Omit,
	"logging-config": "<root>=INFO",
})

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Annotate(err, "reading config file")
	}
	cfg, err := Parse(data)
	return cfg, errors.Annotatef(err, "parsing config file %q", path)
}

// Parse validates raw YAML configuration content.
func Parse(data []byte) (Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, errors.Annotate(err, "unmarshalling yaml")
	}
	coerced, err := configFields.Coerce(raw, nil)
	if err != nil {
		return Config{}, errors.Annotate(err, "config schema check failed")
	}
	valid := coerced.(map[string]interface{})

	cfg := Config{
		LoggingConfig:    valid["logging-config"].(string),
		SourceCloud:      valid["source-cloud"].(string),
		DestinationCloud: valid["destination-cloud"].(string),
		Clouds:           make(map[string]Cloud),
	}
	if file, ok := valid["database-file"]; ok {
		cfg.DatabaseFile = file.(string)
	} else {
		cfg.DatabaseFile = defaultDatabaseFile()
	}
	for name, value := range valid["clouds"].(map[string]interface{}) {
		cloud := value.(map[string]interface{})
		cfg.Clouds[name] = Cloud{
			AuthURL:            cloud["auth-url"].(string),
			Region:             cloud["region"].(string),
			Username:           cloud["username"].(string),
			Password:           cloud["password"].(string),
			ProjectName:        cloud["project-name"].(string),
			ProjectID:          cloud["project-id"].(string),
			DomainName:         cloud["domain-name"].(string),
			UserDomainName:     cloud["user-domain-name"].(string),
			ProjectDomainName:  cloud["project-domain-name"].(string),
			IdentityAPIVersion: cloud["identity-api-version"].(int),
			SkipTLSVerify:      cloud["skip-tls-verify"].(bool),
		}
	}
	return cfg, errors.Trace(cfg.validate())
}

func (c Config) validate() error {
	if c.SourceCloud == c.DestinationCloud {
		return errors.NotValidf("identical source and destination cloud %q", c.SourceCloud)
	}
	for _, name := range []string{c.SourceCloud, c.DestinationCloud} {
		if _, ok := c.Clouds[name]; !ok {
			return errors.NotFoundf("cloud %q in clouds section", name)
		}
	}
	return nil
}

func defaultDatabaseFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sunbeam-migrate.db"
	}
	return filepath.Join(home, ".sunbeam-migrate", "migrations.db")
}

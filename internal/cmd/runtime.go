// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"context"
	"os"

	"github.com/juju/clock"
	"github.com/juju/cmd/v4"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"

	"github.com/canonical/sunbeam-migrate/domain/migration/service"
	"github.com/canonical/sunbeam-migrate/domain/migration/state"
	"github.com/canonical/sunbeam-migrate/internal/config"
	"github.com/canonical/sunbeam-migrate/internal/database"
	"github.com/canonical/sunbeam-migrate/internal/handlers"
	"github.com/canonical/sunbeam-migrate/internal/handlers/designate"
	"github.com/canonical/sunbeam-migrate/internal/handlers/glance"
	"github.com/canonical/sunbeam-migrate/internal/handlers/keystone"
	"github.com/canonical/sunbeam-migrate/internal/handlers/neutron"
	"github.com/canonical/sunbeam-migrate/internal/handlers/nova"
	"github.com/canonical/sunbeam-migrate/internal/openstack"
)

// configEnvVar names the configuration file when --config is not
// given.
const configEnvVar = "SUNBEAM_MIGRATE_CONFIG"

// migrateCommandBase carries the flags and wiring shared by every
// subcommand.
type migrateCommandBase struct {
	cmd.CommandBase

	configPath string
}

// SetFlags is part of the cmd.Command interface.
func (c *migrateCommandBase) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.configPath, "c", "", "Path to the configuration file")
	f.StringVar(&c.configPath, "config", "", "")
}

func (c *migrateCommandBase) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	if path == "" {
		return config.Config{}, errors.Errorf(
			"no configuration file specified, use --config or %s", configEnvVar)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, errors.Trace(err)
	}
	if cfg.LoggingConfig != "" {
		if err := loggo.ConfigureLoggers(cfg.LoggingConfig); err != nil {
			return config.Config{}, errors.Annotate(err, "configuring loggers")
		}
	}
	logger.Debugf("loaded config: %s", path)
	return cfg, nil
}

// openState opens the migration store, creating the database and its
// schema if needed.
func openState(ctx context.Context, cfg config.Config) (*state.State, error) {
	db, err := database.Open(ctx, cfg.DatabaseFile)
	if err != nil {
		return nil, errors.Trace(err)
	}
	runner := database.NewTxnRunner(db, clock.WallClock)
	return state.NewState(runner, clock.WallClock), nil
}

// newStoreService builds an engine with no cloud sessions, enough for
// the record-management commands (list, show, delete, restore).
func (c *migrateCommandBase) newStoreService(ctx context.Context) (*service.Service, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, errors.Trace(err)
	}
	st, err := openState(ctx, cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	registry, err := newRegistry(nil, nil, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return service.NewService(st, registry, cfg.SourceCloud, cfg.DestinationCloud), nil
}

// newEngine builds the full migration engine: store, authenticated
// sessions against both clouds, and the handler registry.
func (c *migrateCommandBase) newEngine(ctx context.Context) (*service.Service, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, errors.Trace(err)
	}
	st, err := openState(ctx, cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	source, err := newSession(cfg.SourceCloud, cfg.Source())
	if err != nil {
		return nil, errors.Trace(err)
	}
	destination, err := newSession(cfg.DestinationCloud, cfg.Destination())
	if err != nil {
		return nil, errors.Trace(err)
	}
	resolver := service.NewResolver(st, cfg.DestinationCloud)
	registry, err := newRegistry(source, destination, resolver)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return service.NewService(st, registry, cfg.SourceCloud, cfg.DestinationCloud), nil
}

func newSession(name string, cloud config.Cloud) (*openstack.Session, error) {
	session, err := openstack.NewSession(name, openstack.Credential{
		AuthURL:           cloud.AuthURL,
		Username:          cloud.Username,
		Password:          cloud.Password,
		ProjectName:       cloud.ProjectName,
		ProjectID:         cloud.ProjectID,
		DomainName:        cloud.DomainName,
		UserDomainName:    cloud.UserDomainName,
		ProjectDomainName: cloud.ProjectDomainName,
		Region:            cloud.Region,
		Version:           cloud.IdentityAPIVersion,
		SkipTLSVerify:     cloud.SkipTLSVerify,
	}, clock.WallClock)
	return session, errors.Annotatef(err, "connecting to cloud %q", name)
}

// newRegistry wires every known handler. Handlers only touch their
// sessions when invoked, so nil sessions are fine for callers that
// need capability metadata alone.
func newRegistry(source, destination *openstack.Session, resolver neutron.DestinationResolver) (*handlers.Registry, error) {
	return handlers.NewRegistry(
		designate.NewZoneHandler(source, destination),
		glance.NewImageHandler(source, destination),
		keystone.NewProjectHandler(source, destination),
		neutron.NewNetworkHandler(source, destination),
		neutron.NewSubnetHandler(source, destination, resolver),
		neutron.NewRouterHandler(source, destination, resolver),
		neutron.NewFloatingIPHandler(source, destination, resolver),
		neutron.NewSecurityGroupHandler(source, destination),
		neutron.NewSecurityGroupRuleHandler(source, destination, resolver),
		nova.NewKeyPairHandler(source, destination),
	)
}

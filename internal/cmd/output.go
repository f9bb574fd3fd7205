// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/juju/ansiterm"
	"github.com/juju/cmd/v4"
	"github.com/juju/errors"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
)

// outputFormatters collects the default json/yaml/smart formatters.
func outputFormatters() map[string]cmd.Formatter {
	formatters := make(map[string]cmd.Formatter, len(cmd.DefaultFormatters))
	for name, f := range cmd.DefaultFormatters {
		formatters[name] = f.Formatter
	}
	return formatters
}

// recordFormatters adds a tabular renderer for migration records on
// top of the defaults.
func recordFormatters() map[string]cmd.Formatter {
	formatters := outputFormatters()
	formatters["tabular"] = formatRecordsTabular
	return formatters
}

// capabilityFormatters adds a tabular renderer for handler
// descriptors on top of the defaults.
func capabilityFormatters() map[string]cmd.Formatter {
	formatters := outputFormatters()
	formatters["tabular"] = formatCapabilitiesTabular
	return formatters
}

func tabWriter(writer io.Writer) *ansiterm.TabWriter {
	return ansiterm.NewTabWriter(writer, 0, 1, 2, ' ', 0)
}

func formatRecordsTabular(writer io.Writer, value interface{}) error {
	records, ok := value.([]coremigration.Record)
	if !ok {
		return errors.Errorf("expected migration records, got %T", value)
	}
	tw := tabWriter(writer)
	fmt.Fprintln(tw, "UUID\tSERVICE\tTYPE\tSOURCE-ID\tDESTINATION-ID\tSTATUS\tCREATED")
	for _, r := range records {
		status := string(r.Status)
		if r.Archived {
			status += " (archived)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.UUID, r.Service, r.ResourceType, r.SourceID, r.DestinationID,
			status, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func formatCapabilitiesTabular(writer io.Writer, value interface{}) error {
	descriptors, ok := value.([]coremigration.ResourceTypeDescriptor)
	if !ok {
		return errors.Errorf("expected resource type descriptors, got %T", value)
	}
	tw := tabWriter(writer)
	fmt.Fprintln(tw, "SERVICE\tTYPE\tREADINESS\tMEMBERS\tASSOCIATED\tFILTER-KEYS")
	for _, d := range descriptors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Service, d.ResourceType, d.Readiness,
			strings.Join(d.MemberResourceTypes, ","),
			strings.Join(d.AssociatedResourceTypes, ","),
			strings.Join(d.BatchFilterKeys, ","))
	}
	return tw.Flush()
}

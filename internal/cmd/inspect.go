// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/virt-do/quark/internal/quardle"
	"gopkg.in/yaml.v3"
)

// Output formats of the inspect command.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// member is the printed representation of an archive member.
type member struct {
	Name string `json:"name"           yaml:"name"`
	Size int64  `json:"size"           yaml:"size"`
	Mode string `json:"mode"           yaml:"mode"`
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
}

func (a *app) inspectCommand() *cobra.Command {
	var (
		format   string
		contents bool
	)

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the manifest of a quardle without unpacking it",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			if format != formatJSON && format != formatYAML {
				return &usageError{err: fmt.Errorf("%w: %s", ErrUnknownFormat, format)}
			}

			if contents {
				members, err := quardle.Contents(args[0])
				if err != nil {
					return err //nolint:wrapcheck
				}

				list := make([]member, 0, len(members))
				for _, m := range members {
					list = append(list, member{
						Name: m.Name,
						Size: m.Size,
						Mode: m.Mode.String(),
						Link: m.Link,
					})
				}

				return encode(a.Stdout, format, list)
			}

			manifest, err := quardle.Inspect(args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			return encode(a.Stdout, format, manifest)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "output format: json, yaml")
	cmd.Flags().BoolVar(&contents, "contents", false, "list the archive members instead")

	return cmd
}

func encode(w io.Writer, format string, value any) error {
	switch format {
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	}

	return nil
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/nestling/internal/output"
	"github.com/simonhull/firebird-suite/nestling/internal/project"
)

// TiersCmd lists what each project size generates.
func TiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List project sizes and what each one generates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := project.LoadManifest()
			if err != nil {
				return err
			}

			for _, tier := range project.Tiers() {
				spec, err := m.Spec(tier)
				if err != nil {
					return err
				}
				layout, err := m.Layout(tier)
				if err != nil {
					return err
				}

				output.Info(fmt.Sprintf("%s: %s", tier, spec.Summary))

				paths := make([]string, 0, len(layout.Dirs)+len(layout.Files))
				for _, d := range layout.Dirs {
					paths = append(paths, d+"/")
				}
				for _, f := range layout.Files {
					paths = append(paths, f.Path)
				}
				output.Step("files: " + strings.Join(paths, ", "))
				output.Step("requirements: " + strings.Join(layout.Requirements, ", "))
			}
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sipolgar/sipolgar/internal/config"
)

func newConfigCmd(opts *GlobalOptions) *cobra.Command {
	standalone := map[string]string{annotationStandalone: "true"}
	load := func() (*config.Manager, error) {
		home := opts.Home
		if home == "" {
			h, err := config.HomeDir()
			if err != nil {
				return nil, err
			}
			home = h
		}
		m := config.NewManager(home, nil, nil)
		if _, err := m.Load(); err != nil {
			return nil, err
		}
		return m, nil
	}

	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Show or edit config.yaml",
		Annotations: standalone,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:         "show",
			Short:       "Print the effective configuration",
			Annotations: standalone,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := load()
				if err != nil {
					return err
				}
				data, err := yaml.Marshal(m.Get())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "# %s\n", m.Path())
				_, _ = out.Write(data)
				return nil
			},
		},
		&cobra.Command{
			Use:         "set <key> <value>",
			Short:       "Set a dotted key such as api.base_url and save",
			Args:        cobra.ExactArgs(2),
			Annotations: standalone,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := load()
				if err != nil {
					return err
				}
				if err := m.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := m.Save(); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
				return nil
			},
		},
	)
	return cmd
}

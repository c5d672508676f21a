package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/preflight/config"
)

func newProfileCmd() *cobra.Command {
	var file, paper string
	var list bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the effective check profile as YAML",
		Long: `Print the profile the check command would use for the same
--profile and --paper flags. The output is a valid profile file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				for _, name := range config.PaperNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			p, err := loadProfile(file, paper)
			if err != nil {
				return &exitError{code: ExitFailed, err: err}
			}
			data, err := p.YAML()
			if err != nil {
				return &exitError{code: ExitFailed, err: err}
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&file, "profile", "", "YAML profile file")
	cmd.Flags().StringVar(&paper, "paper", "", "Paper preset")
	cmd.Flags().BoolVar(&list, "list", false, "List the paper presets")

	return cmd
}

// loadProfile resolves the --profile and --paper flags. A profile file may
// name its own paper, so the two flags are exclusive.
func loadProfile(file, paper string) (config.Profile, error) {
	switch {
	case file != "" && paper != "":
		return config.Profile{}, fmt.Errorf("--profile and --paper cannot be used together")
	case file != "":
		return config.Load(file)
	case paper != "":
		return config.Paper(paper)
	default:
		return config.Default(), nil
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ocrsynth/pkg/profile"
)

// profilesCommand creates the profiles command.
func (c *CLI) profilesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the registered condition profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.newEngine()
			if err != nil {
				return err
			}
			var profiles []*profile.Profile
			for _, name := range e.Conditions() {
				p, err := e.ResolveProfile(name)
				if err != nil {
					return err
				}
				profiles = append(profiles, p)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(profileViews(profiles))
			}
			for _, p := range profiles {
				printProfile(p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

type stageView struct {
	Kind   string             `json:"kind"`
	Params map[string]float64 `json:"params"`
}

type profileView struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Font        string      `json:"font"`
	Stages      []stageView `json:"stages"`
}

func profileViews(ps []*profile.Profile) []profileView {
	out := make([]profileView, len(ps))
	for i, p := range ps {
		v := profileView{Name: p.Name, Description: p.Description, Font: string(p.FontStyle)}
		for _, s := range p.Stages {
			v.Stages = append(v.Stages, stageView{Kind: s.Kind.String(), Params: s.Params.Values()})
		}
		out[i] = v
	}
	return out
}

func printProfile(p *profile.Profile) {
	fmt.Println(StyleTitle.Render(p.Name) + " " + StyleDim.Render(p.Description))
	printKeyValue("font", string(p.FontStyle))
	for _, s := range p.Stages {
		var parts []string
		for _, name := range s.Params.Names() {
			parts = append(parts, fmt.Sprintf("%s=%g", name, s.Params.Get(name)))
		}
		printKeyValue(s.Kind.String(), strings.Join(parts, " "))
	}
	fmt.Println()
}

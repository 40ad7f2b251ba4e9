// civitasctl is the operator CLI: offline scoring of profile files against a
// rule table, rule table inspection, and dev token minting.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"civitas/internal/platform/logger"
	"civitas/internal/platform/token"
	"civitas/internal/rules"
	"civitas/internal/scoring"
	"civitas/pkg/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "civitasctl",
		Short:         "Operator tooling for the civitas scoring engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("rules", "rules.yml", "path to the YAML rule table")

	root.AddCommand(newScoreCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newTokenCmd())
	return root
}

// profileFile is the YAML shape accepted by the score command. It mirrors the
// submission payload minus PII, which offline scoring never needs.
type profileFile struct {
	EducationLevel string   `yaml:"education_level"`
	Industry       string   `yaml:"industry"`
	Skills         []string `yaml:"skills"`
	FreeText       string   `yaml:"free_text"`
	Availability   string   `yaml:"availability"`
	Resources      []struct {
		Category string         `yaml:"category"`
		Subtype  string         `yaml:"subtype"`
		Quantity int            `yaml:"quantity"`
		Specs    map[string]any `yaml:"specs"`
	} `yaml:"resources"`
}

func newScoreCmd() *cobra.Command {
	var terms []string

	cmd := &cobra.Command{
		Use:   "score <profile.yml>",
		Short: "Score a profile file against the rule table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(cmd)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read profile: %w", err)
			}
			var file profileFile
			if err := yaml.Unmarshal(raw, &file); err != nil {
				return fmt.Errorf("parse profile: %w", err)
			}

			profile := scoring.Profile{
				EducationLevel: file.EducationLevel,
				Industry:       file.Industry,
				Skills:         file.Skills,
				FreeText:       file.FreeText,
				Availability:   file.Availability,
			}
			for _, res := range file.Resources {
				profile.Resources = append(profile.Resources, scoring.Resource{
					Category: res.Category,
					Subtype:  res.Subtype,
					Quantity: res.Quantity,
					Specs:    res.Specs,
				})
			}

			result := scoring.Score(profile, tbl, nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "score: %.1f\n", result.Score)
			fmt.Fprintf(out, "tags:  %v\n", result.Tags)

			if len(terms) > 0 {
				q := scoring.ScoreForQuery(profile, result.Tags, terms, tbl)
				fmt.Fprintf(out, "query relevance for %v: %.1f\n", terms, q)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&terms, "query", nil, "also compute query relevance for these terms")
	return cmd
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the rule table",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print a summary of the loaded rule table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := loadTable(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "base score: %.1f\n", tbl.BaseScore())
			fmt.Fprintf(out, "max score:  %.1f\n", tbl.MaxScore())
			fmt.Fprintln(out, "categories:")
			for _, cat := range tbl.Categories() {
				keywords := 0
				for _, list := range cat.Keywords {
					keywords += len(list)
				}
				fmt.Fprintf(out, "  %-16s weight=%.2f keywords=%d\n", cat.Name, cat.Weight, keywords)
			}
			fmt.Fprintf(out, "education levels: %v\n", tbl.EducationLevels())
			return nil
		},
	})
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		role       string
		subject    string
		civilianID string
		signingKey string
		ttl        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsedRole, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			p := domain.Principal{Subject: subject, Role: parsedRole}
			if civilianID != "" {
				id, err := domain.ParseCivilianID(civilianID)
				if err != nil {
					return err
				}
				p.CivilianID = id
			}
			signed, err := token.NewValidator(signingKey).Issue(p, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleCivilian), "principal role")
	cmd.Flags().StringVar(&subject, "subject", "dev-user", "token subject")
	cmd.Flags().StringVar(&civilianID, "civilian-id", "", "civilian id claim")
	cmd.Flags().StringVar(&signingKey, "signing-key", "dev-secret-key-change-in-production", "HMAC signing key")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func loadTable(cmd *cobra.Command) (*rules.Table, error) {
	path, err := cmd.Flags().GetString("rules")
	if err != nil {
		return nil, err
	}
	return rules.Load(path, logger.New("error")), nil
}

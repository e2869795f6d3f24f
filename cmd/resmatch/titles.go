package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/usecase/titles"
)

const anySeniority = "any"

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Inspect the job title index",
}

var titlesLookupCmd = &cobra.Command{
	Use:   "lookup <title>",
	Short: "List resumes filed under a job title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := strings.Join(args, " ")
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			set, err := a.titleIndex.Lookup(ctx, t)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s): %d resumes\n", t, title.Canonicalize(t), set.Len())
			for _, id := range set.Sorted() {
				fmt.Fprintln(out, id)
			}
			return nil
		})
	},
}

var titlesRelatedCmd = &cobra.Command{
	Use:   "related <query>",
	Short: "Search related job titles",
	Long: `Related searches the job_titles collection. A seniority word inside the
query ("analyst senior") is used as the seniority filter; --seniority overrides
it and --interactive asks for one when neither is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRelated,
}

func init() {
	titlesRelatedCmd.Flags().String("seniority", "", "filter: "+strings.Join(title.Levels, ", "))
	titlesRelatedCmd.Flags().Int("top-k", titles.DefaultRelatedTopK, "number of titles returned")
	titlesRelatedCmd.Flags().BoolP("interactive", "i", false, "pick the seniority from a menu")

	titlesCmd.AddCommand(titlesLookupCmd, titlesRelatedCmd)
	rootCmd.AddCommand(titlesCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	query, seniority := title.ParseQuery(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query has no title words")
	}

	if v, _ := cmd.Flags().GetString("seniority"); v != "" {
		v = strings.ToLower(v)
		if !title.IsLevel(v) {
			return fmt.Errorf("unknown seniority %q", v)
		}
		seniority = v
	}
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive && seniority == "" {
		picked, err := pickSeniority()
		if err != nil {
			return err
		}
		seniority = picked
	}

	topK, _ := cmd.Flags().GetInt("top-k")
	if topK < 1 || topK > titles.MaxRelatedTopK {
		return fmt.Errorf("--top-k must be between 1 and %d", titles.MaxRelatedTopK)
	}

	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		found, err := a.finder.Related(ctx, query, seniority, topK)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TITLE\tSENIORITY\tCATEGORY\tSCORE")
		for _, r := range found {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\n", r.Title, r.Seniority, r.Category, r.Score)
		}
		return tw.Flush()
	})
}

func pickSeniority() (string, error) {
	prompt := promptui.Select{
		Label: "Seniority",
		Items: append([]string{anySeniority}, title.Levels...),
	}
	_, picked, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("seniority prompt: %w", err)
	}
	if picked == anySeniority {
		return "", nil
	}
	return picked, nil
}

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dombatch "github.com/OmarAli141/resumes-comparison/internal/domain/batch"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
	ingestuc "github.com/OmarAli141/resumes-comparison/internal/usecase/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load resumes and job descriptions into the index",
}

var ingestResumesCmd = &cobra.Command{
	Use:   "resumes <file>",
	Short: "Embed and index cleaned resumes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resumes, err := ingestuc.LoadResumesFile(args[0])
		if err != nil {
			return err
		}
		withTitles, _ := cmd.Flags().GetBool("titles")

		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			a.ingest.WithChunkSize(chunkSize(cmd))
			results, err := a.ingest.IngestResumes(ctx, resumes)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), "resumes", results)
			printIndexSize(ctx, cmd.OutOrStdout(), a, vectorindex.Resumes)

			if withTitles {
				snap, err := a.ingest.BuildTitleIndex(ctx, resumes)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "title index %s: %d titles\n", snap.Version(), snap.Len())
			}
			return nil
		})
	},
}

var ingestJDsCmd = &cobra.Command{
	Use:     "jds <file>",
	Aliases: []string{"job-descriptions"},
	Short:   "Embed and index structured job descriptions",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jds, err := ingestuc.LoadJobDescriptionsFile(args[0])
		if err != nil {
			return err
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			a.ingest.WithChunkSize(chunkSize(cmd))
			results, err := a.ingest.IngestJobDescriptions(ctx, jds)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), "job descriptions", results)
			printIndexSize(ctx, cmd.OutOrStdout(), a, vectorindex.JobDescriptions)
			return nil
		})
	},
}

var ingestTitlesCmd = &cobra.Command{
	Use:   "titles <resumes-file>",
	Short: "Rebuild the job title index from resumes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resumes, err := ingestuc.LoadResumesFile(args[0])
		if err != nil {
			return err
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			snap, err := a.ingest.BuildTitleIndex(ctx, resumes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "title index %s: %d titles\n", snap.Version(), snap.Len())
			return nil
		})
	},
}

func init() {
	ingestCmd.PersistentFlags().Int("chunk-size", ingestuc.DefaultChunkSize, "records embedded per provider call")
	ingestResumesCmd.Flags().Bool("titles", false, "also rebuild the title index")

	ingestCmd.AddCommand(ingestResumesCmd, ingestJDsCmd, ingestTitlesCmd)
	rootCmd.AddCommand(ingestCmd)
}

func chunkSize(cmd *cobra.Command) int {
	n, _ := cmd.Flags().GetInt("chunk-size")
	return n
}

// printIndexSize is informational; a failed count does not fail the command.
func printIndexSize(ctx context.Context, out io.Writer, a *app, c vectorindex.Collection) {
	n, err := a.index.Count(ctx, c)
	if err != nil {
		a.logger.Warn("Failed to count index entries", zap.String("collection", c.Name), zap.Error(err))
		return
	}
	fmt.Fprintf(out, "%s index: %d entries\n", c.Name, n)
}

func printSummary(out io.Writer, what string, results []dombatch.Result) {
	s := dombatch.Summarize(results)
	fmt.Fprintf(out, "%s: %d total, %d ok, %d skipped, %d failed, %d entries\n",
		what, s.Total, s.OK, s.Skipped, s.Failed, s.Entries)
	for _, r := range results {
		if r.Status() == dombatch.StatusError {
			fmt.Fprintf(out, "  %s: %v\n", r.ID(), r.Err())
		}
	}
}

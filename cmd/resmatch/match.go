package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/params"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/result"
	domshort "github.com/OmarAli141/resumes-comparison/internal/domain/shortlist"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	ingestuc "github.com/OmarAli141/resumes-comparison/internal/usecase/ingest"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank resumes for job descriptions",
	Long: `Match ranks resumes for one or more job descriptions.

Sources (exactly one):
  --file   JSON array of {id, position_title, model_response}
  --text   free-text job description (with optional --title)
  --jd-id  a job description already ingested into the index

Runs from --jd-id are always stored; --save stores runs for the other sources.`,
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.String("file", "", "job descriptions JSON file")
	f.String("text", "", "free-text job description")
	f.String("title", "", "job title for --text")
	f.String("id", "adhoc", "job description id for --text")
	f.String("jd-id", "", "id of an ingested job description")
	f.Int("top-k-initial", 0, "candidates fetched per query variant")
	f.Int("top-k-final", 0, "resumes returned")
	f.Float64("min-score", 0, "score threshold for acceptance")
	f.Bool("save", false, "store the runs in the shortlist store")
	f.Bool("json", false, "print JSON instead of a table")

	matchCmd.MarkFlagsMutuallyExclusive("file", "text", "jd-id")
	matchCmd.MarkFlagsOneRequired("file", "text", "jd-id")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	overrides := func(a *app) (params.Params, error) {
		var ki, kf *int
		var ms *float64
		if f.Changed("top-k-initial") {
			v, _ := f.GetInt("top-k-initial")
			ki = &v
		}
		if f.Changed("top-k-final") {
			v, _ := f.GetInt("top-k-final")
			kf = &v
		}
		if f.Changed("min-score") {
			v, _ := f.GetFloat64("min-score")
			ms = &v
		}
		return a.defaults.WithOverrides(ki, kf, ms)
	}

	file, _ := f.GetString("file")
	text, _ := f.GetString("text")
	jdID, _ := f.GetString("jd-id")
	save, _ := f.GetBool("save")
	asJSON, _ := f.GetBool("json")
	out := cmd.OutOrStdout()

	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		p, err := overrides(a)
		if err != nil {
			return err
		}

		if jdID != "" {
			run, err := a.shortlists.MatchStored(ctx, jdID, p)
			if err != nil {
				return err
			}
			return printRun(out, run, asJSON)
		}

		docs, err := matchSources(file, text, f)
		if err != nil {
			return err
		}

		var failed int
		for _, doc := range docs {
			ranked, err := a.engine.Match(ctx, doc, p)
			if err != nil {
				failed++
				a.logger.Error("Match failed", zap.String("jd_id", doc.ID()), zap.Error(err))
				continue
			}
			run := domshort.NewRun(doc.ID(), p, ranked, time.Now())
			if save {
				if err := a.runs.Save(ctx, run); err != nil {
					return fmt.Errorf("save shortlist %s: %w", doc.ID(), err)
				}
			}
			if err := printRanked(out, doc, run, ranked, asJSON); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d job descriptions failed", failed, len(docs))
		}
		return nil
	})
}

type flagGetter interface {
	GetString(name string) (string, error)
}

func matchSources(file, text string, f flagGetter) ([]document.Document, error) {
	if file != "" {
		jds, err := ingestuc.LoadJobDescriptionsFile(file)
		if err != nil {
			return nil, err
		}
		docs := make([]document.Document, 0, len(jds))
		for _, jd := range jds {
			doc, err := jd.Document()
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		if len(docs) == 0 {
			return nil, errors.New("no job descriptions in " + file)
		}
		return docs, nil
	}

	id, _ := f.GetString("id")
	t, _ := f.GetString("title")
	meta := map[string]string{document.MetaSource: "cli"}
	if t != "" {
		meta[document.MetaTitle] = t
		meta[document.MetaSeniority] = title.DetectSeniority(t)
	}
	doc, err := document.New(id, text, meta)
	if err != nil {
		return nil, err
	}
	return []document.Document{doc}, nil
}

func printRanked(out io.Writer, doc document.Document, run domshort.Run, ranked result.Ranked, asJSON bool) error {
	if asJSON {
		return printRun(out, run, true)
	}
	fmt.Fprintf(out, "%s  %q  variants=%d  pool=%d  accepted=%d/%d\n",
		doc.ID(), doc.Title(), len(run.Variants), ranked.PoolSize(), run.AcceptedCount(), len(run.Items))
	return printItems(out, run)
}

func printRun(out io.Writer, run domshort.Run, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}
	fmt.Fprintf(out, "run %s  jd=%s  accepted=%d/%d\n",
		run.ID, run.JobDescriptionID, run.AcceptedCount(), len(run.Items))
	return printItems(out, run)
}

func printItems(out io.Writer, run domshort.Run) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tRESUME\tTITLE\tSCORE\tACCEPTED\tBOOSTED")
	for _, it := range run.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%t\t%t\n",
			it.Rank, it.ResumeID, it.Title, it.Score, it.Accepted, it.Boosted)
	}
	for _, sf := range run.SoftFailures {
		fmt.Fprintf(tw, "-\tvariant %d skipped: %s\t\t\t\t\n", sf.Variant, sf.Reason)
	}
	return tw.Flush()
}

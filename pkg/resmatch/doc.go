// Package resmatch embeds the resume matcher in a Go program, backed by
// Valkey or Redis with the search module.
//
//	client, _ := resmatch.New(ctx,
//	    resmatch.WithValkey("localhost:6379", ""),
//	    resmatch.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	_, _ = client.IngestResumes(ctx, resumes)
//	_, _ = client.BuildTitleIndex(ctx, resumes)
//
//	res, _ := client.Match(ctx, resmatch.JobDescription{
//	    Title: "Senior Accountant",
//	    Text:  "Owns month-end close ...",
//	}, resmatch.TopKFinal(5))
//
// Without WithTitleSnapshots the title index lives in memory and is rebuilt
// by BuildTitleIndex.
package resmatch

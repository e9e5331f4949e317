// Package moviedex provides an embeddable Go client for the moviedex
// recommendation engine: nearest-neighbor movie lookups over a packed
// similarity snapshot, enriched with provider metadata and AI summaries.
//
// The snapshot is the pair of gob blobs produced by moviedexctl pack.
// Providers are optional: without them the client still recommends by
// title and score, metadata slots stay nil, and summaries degrade to a
// fixed fallback sentence.
//
// # Quick start
//
//	client, _ := moviedex.New(ctx,
//	    moviedex.WithSnapshot("data/movies.gob", "data/similarity.gob"),
//	    moviedex.WithTMDB(os.Getenv("TMDB_API_KEY")),
//	    moviedex.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer client.Close()
//
//	rec, _ := client.Recommendations().Recommend(ctx, "Alien", 5)
//	for _, slot := range rec.Slots {
//	    fmt.Println(slot.Title, slot.Score)
//	}
//
// # Detail views
//
// Detail state is scoped by a session key the host application chooses,
// for example one per user or per browser tab:
//
//	d := client.Details("user-42")
//	details, _ := d.Open(ctx, rec.Slots[0].ID)
//	summary, _ := d.Summary(ctx, details.ID)
//	d.Close()
//
// Custom providers plug in via WithFetcher and WithSummarizer; use
// errors.Is with the exported sentinel errors to branch on failures.
package moviedex

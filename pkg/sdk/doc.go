// Package catalogsearch embeds the catalogsearch hybrid product search engine
// in a Go program, without the HTTP service in front of it.
//
// The client talks to Redis with the search module directly and vectorizes
// text through the Embedder you provide:
//
//	client, _ := catalogsearch.New(ctx,
//	    catalogsearch.WithRedis("localhost:6379", ""),
//	    catalogsearch.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	_, _ = client.EnsureIndex(ctx)
//	_, _ = client.Index(ctx, products)
//	resp, _ := client.Search(ctx, catalogsearch.Query{Text: "nike running shoes under 3000"})
//
// Brand, price and category are extracted from the query text unless given
// explicitly on the Query; explicit values always win.
package catalogsearch

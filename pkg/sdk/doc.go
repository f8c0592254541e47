// Package platefinder embeds the restaurant retrieval pipelines in a Go
// program without running the HTTP API.
//
// The client reads restaurant containers from Valkey, Redis, PostgreSQL,
// SQLite or a JSON dataset file and answers the same queries the API does:
//
//	client, _ := platefinder.New(ctx, platefinder.WithDatasetFile("restaurants.json"))
//	defer client.Close()
//
//	res, _ := client.ByCuisine(ctx, platefinder.CuisineQuery{
//	    Cuisine: "italian",
//	    Near:    &platefinder.Point{Lat: 28.55, Lon: 77.19},
//	})
//	for _, r := range res.Restaurants {
//	    fmt.Println(r.Name, *r.DistanceKm)
//	}
//
// Image search needs a classifier, either the built-in OpenAI-compatible one
// (WithOpenAI) or any implementation of Classifier (WithClassifier).
package platefinder

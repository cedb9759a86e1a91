// Package fetch implements the rate-limited page fetcher shared by the
// follower and mentions collectors.
//
// Each Fetcher owns one lazily created HTTP session with its own connection
// pool. Failed requests are retried with exponential backoff, and a fixed
// delay is slept after every successful network fetch. Non-2xx responses
// become typed errors from pkg/errors.
//
//	f := fetch.New(fetch.Options{Name: "mentions", MaxRetries: 3, BaseDelay: time.Second})
//	defer f.Close()
//	body, err := f.Fetch(ctx, "https://www.reddit.com/search.json", url.Values{"q": {`title:"Hades"`}})
package fetch

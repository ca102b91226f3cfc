// Package instagram provides types, interfaces, and helpers for working with the
// Instagram Graph API.
//
// # Overview
//
// The instagram package defines the value types (AppCredentials, Response,
// Error, token payloads) and the Client and OAuthHelper interfaces. A concrete
// implementation is provided by the igclient package, which wires
// configuration, transport and error mapping. Most consumers import igclient to
// construct a client and then use the interfaces declared here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/instagram-client/pkg/igclient"
//	  "github.com/fivetwenty-io/instagram-client/pkg/instagram"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := igclient.New(&instagram.Config{ClientID: "id", ClientSecret: "secret"})
//	  if err != nil { log.Fatal(err) }
//
//	  cli.SetAccessToken("IGQV...")
//	  resp, err := cli.Get(ctx, "me/media?fields=id,caption", nil, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = resp.Data
//	}
//
// # Versions and base URLs
//
// Requests go to {BaseURL}/{version}/{endpoint}. Pass Version("v19.0") to use
// another version for one call, or NoVersion() to drop the segment entirely, as
// the token endpoints require.
//
// # Login flow
//
//	oauth := igclient.NewOAuthHelper(cli)
//	loginURL := oauth.LoginURL([]string{"instagram_business_basic"}, redirectURI, nil)
//	// ... user returns with ?code=...
//	short, err := oauth.ExchangeCode(ctx, code, redirectURI)
//	long, err := oauth.ExchangeToken(ctx, short.AccessToken)
//	long, err = oauth.RefreshToken(ctx, long.AccessToken)
//
// # Errors
//
// Every failure is an *Error. When the API answered with a JSON error document
// the Type, APICode, Subcode and TraceID fields are set; IsOAuthError and
// IsStatus cover the common checks.
package instagram

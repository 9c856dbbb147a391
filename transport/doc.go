// Package transport fetches resource bodies over HTTP and builds instances from them.
//
// A [Client] generates request URLs with a registry, validates the response status
// against the spec's valid status codes, caps the body size and decodes JSON with
// numbers kept in their text form. It implements relation.Fetcher, so references
// found by a relation.Resolver can be completed with it:
//
//	c, err := transport.New(transport.WithRegistry(reg))
//	if err != nil {
//		return err
//	}
//	product, err := c.Get(ctx, productSpec, "1")
//	res, _ := relation.NewResolver(product, relation.WithRegistry(reg))
//	designers, err := res.ResolveAll(ctx, c, designerSpec)
//
// NewSafeHTTPClient returns an http.Client that refuses to connect to private,
// loopback and link-local addresses, for servers that fetch URLs chosen by
// untrusted callers.
package transport

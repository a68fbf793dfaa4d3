package hypothesis

import "context"

// Root fetches the API index, which lists the available routes.
//
//	GET /
func Root(ctx context.Context, conn ConnectionOptions) (*IndexResponse, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}

	resp, err := do(ctx, conn, "", nil)
	if err != nil {
		return nil, err
	}
	return decode[IndexResponse]("index response", resp)
}

// Search finds annotations matching query.
//
//	GET /search
func Search(ctx context.Context, conn ConnectionOptions, query SearchQuery) (*SearchResult, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateInput("search query", query); err != nil {
		return nil, err
	}

	path, err := withQuery("search", query.Params())
	if err != nil {
		return nil, err
	}
	resp, err := do(ctx, conn, path, nil)
	if err != nil {
		return nil, err
	}
	return decode[SearchResult]("search result", resp)
}

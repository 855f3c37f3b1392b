package dto

// OpenLibAPIResponseBody contains the fields read from the openlibrary ISBN endpoint.
type OpenLibAPIResponseBody struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	Publishers []string `json:"publishers"`
	Isbn10     []string `json:"isbn_10"`
	Isbn13     []string `json:"isbn_13"`
	Date       string   `json:"publish_date"`
	PageCount  int      `json:"number_of_pages"`
	Authors    []struct {
		Key string `json:"key"`
	} `json:"authors"`
}

// OpenLibAuthorResponseBody contains the fields read from the openlibrary author endpoint.
type OpenLibAuthorResponseBody struct {
	Name string `json:"name"`
}

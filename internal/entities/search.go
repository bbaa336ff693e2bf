package entities

// SearchResult is an ephemeral catalog entry returned by a source adapter.
// It is never persisted directly; "add to library" materializes it into a
// Book with a fresh id and normalized fields.
type SearchResult struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	ISBN          string   `json:"isbn"`
	PageCount     int      `json:"pageCount"`
	Categories    []string `json:"categories"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	PreviewLink   string   `json:"previewLink,omitempty"`
	InfoLink      string   `json:"infoLink,omitempty"`
	Rating        float64  `json:"rating"`
	RatingsCount  int      `json:"ratingsCount"`
	IsFree        bool     `json:"isFree"`
	PDFAvailable  bool     `json:"pdfAvailable"`
	EPUBAvailable bool     `json:"epubAvailable"`
	DownloadLink  string   `json:"downloadLink,omitempty"`
	Source        string   `json:"source"`
	// IAID is the Internet Archive identifier some adapters attach when the
	// download link points at an archive.org scan.
	IAID string `json:"iaId,omitempty"`
}

// DedupKey is the identity used when merging results from several sources:
// ISBN when present, otherwise title plus first author.
func (r SearchResult) DedupKey() string {
	if r.ISBN != "" {
		return r.ISBN
	}
	first := ""
	if len(r.Authors) > 0 {
		first = r.Authors[0]
	}
	return r.Title + "-" + first
}

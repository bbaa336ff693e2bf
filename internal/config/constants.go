package config

// DefaultLibraryPath is the default path for the library JSON document.
const DefaultLibraryPath = "./library.json"

// DefaultAllowedDomains lists the catalog hosts download links may point
// at. Results linking elsewhere are dropped from aggregated searches.
var DefaultAllowedDomains = []string{
	"books.google.com",
	"books.googleusercontent.com",
	"openlibrary.org",
	"archive.org",
	"gutenberg.org",
	"github.com",
	"raw.githubusercontent.com",
	"greenteapress.com",
	"automatetheboringstuff.com",
	"eloquentjavascript.net",
	"goalkicker.com",
	"git-scm.com",
	"statlearning.com",
}

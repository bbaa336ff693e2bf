package catalog

import (
	"strings"

	"github.com/mkawano/hondana/internal/entities"
)

// CuratedSource is the adapter name attached to curated results.
const CuratedSource = "Curated Free PDFs"

// curatedEntry is one hand-maintained catalog row: a known-good direct
// download plus the keywords it should match on.
type curatedEntry struct {
	result   entities.SearchResult
	keywords []string
}

// CuratedCatalog is a static list of legally downloadable books treated as
// a zero-latency pseudo-adapter. It is filtered in memory, never queried
// over the network, and its results take top precedence in aggregation.
type CuratedCatalog struct {
	entries []curatedEntry
}

func NewCuratedCatalog() *CuratedCatalog {
	return &CuratedCatalog{entries: curatedEntries}
}

func (c *CuratedCatalog) Name() string {
	return CuratedSource
}

// Search matches when the query contains one of the entry's keywords, or
// the title or an author contains the query.
func (c *CuratedCatalog) Search(query string) []entities.SearchResult {
	q := strings.ToLower(query)

	var out []entities.SearchResult
	for _, e := range c.entries {
		if c.matches(e, q) {
			out = append(out, e.result)
		}
	}
	return out
}

func (c *CuratedCatalog) matches(e curatedEntry, q string) bool {
	for _, kw := range e.keywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(e.result.Title), q) {
		return true
	}
	for _, au := range e.result.Authors {
		if strings.Contains(strings.ToLower(au), q) {
			return true
		}
	}
	return false
}

func curated(id, title string, authors []string, publisher, publishedDate, description string, categories []string, thumbnail, downloadLink string, pageCount int, keywords ...string) curatedEntry {
	return curatedEntry{
		result: entities.SearchResult{
			ID:            id,
			Title:         title,
			Authors:       authors,
			Publisher:     publisher,
			PublishedDate: publishedDate,
			Description:   description,
			Categories:    categories,
			Thumbnail:     thumbnail,
			DownloadLink:  downloadLink,
			PageCount:     pageCount,
			IsFree:        true,
			PDFAvailable:  true,
			Source:        CuratedSource,
		},
		keywords: keywords,
	}
}

// curatedEntries holds known-good direct PDF downloads. Links point at the
// publisher's own hosting, never at aggregator landing pages.
var curatedEntries = []curatedEntry{
	curated("progit", "Pro Git (2nd Edition)",
		[]string{"Scott Chacon", "Ben Straub"}, "Apress", "2024",
		"The complete guide to Git, from version control basics to advanced workflows.",
		[]string{"Git", "Version Control", "Programming"},
		"https://git-scm.com/images/progit2.png",
		"https://github.com/progit/progit2/releases/download/2.1.430/progit.pdf",
		574, "git", "version control", "github"),
	curated("thinkpython", "Think Python (2nd Edition)",
		[]string{"Allen B. Downey"}, "Green Tea Press", "2015",
		"An introduction to Python programming for beginners.",
		[]string{"Python", "Programming"},
		"https://greenteapress.com/thinkpython2/think_python2_medium.jpg",
		"https://greenteapress.com/thinkpython2/thinkpython2.pdf",
		292, "python", "programming"),
	curated("automate-python", "Automate the Boring Stuff with Python",
		[]string{"Al Sweigart"}, "No Starch Press", "2019",
		"Practical programming for total beginners: automate everyday tasks with Python.",
		[]string{"Python", "Automation", "Programming"},
		"https://automatetheboringstuff.com/images/automate_2e_cover.png",
		"https://automatetheboringstuff.com/2e/automate-online.pdf",
		500, "python", "automation", "scripting"),
	curated("eloquent-javascript", "Eloquent JavaScript (3rd Edition)",
		[]string{"Marijn Haverbeke"}, "No Starch Press", "2018",
		"A modern introduction to JavaScript, programming, and the wonders of the digital.",
		[]string{"JavaScript", "Web Development", "Programming"},
		"https://eloquentjavascript.net/img/cover.jpg",
		"https://eloquentjavascript.net/Eloquent_JavaScript.pdf",
		472, "javascript", "web", "node", "js"),
	curated("go-notes", "Go Notes for Professionals",
		[]string{"GoalKicker.com"}, "GoalKicker.com", "2023",
		"A practical compilation of Go notes from Stack Overflow documentation.",
		[]string{"Go", "Programming"},
		"https://goalkicker.com/GoBook/GoNotesForProfessionals.png",
		"https://goalkicker.com/GoBook/GoNotesForProfessionals.pdf",
		214, "go", "golang"),
	curated("linux-notes", "Linux Notes for Professionals",
		[]string{"GoalKicker.com"}, "GoalKicker.com", "2023",
		"A practical compilation of Linux notes.",
		[]string{"Linux", "Operating System"},
		"https://goalkicker.com/LinuxBook/LinuxNotesForProfessionals.png",
		"https://goalkicker.com/LinuxBook/LinuxNotesForProfessionals.pdf",
		157, "linux", "unix", "operating system"),
	curated("docker-notes", "Docker Notes for Professionals",
		[]string{"GoalKicker.com"}, "GoalKicker.com", "2023",
		"A practical compilation of Docker notes.",
		[]string{"Docker", "DevOps", "Containers"},
		"https://goalkicker.com/DockerBook/DockerNotesForProfessionals.png",
		"https://goalkicker.com/DockerBook/DockerNotesForProfessionals.pdf",
		107, "docker", "containers", "devops"),
	curated("algorithms-notes", "Algorithms Notes for Professionals",
		[]string{"GoalKicker.com"}, "GoalKicker.com", "2018",
		"A comprehensive compilation of algorithms and data structures notes.",
		[]string{"Algorithms", "Data Structures", "Computer Science"},
		"https://goalkicker.com/AlgorithmsBook/AlgorithmsNotesForProfessionals.png",
		"https://goalkicker.com/AlgorithmsBook/AlgorithmsNotesForProfessionals.pdf",
		257, "algorithms", "data structures", "computer science"),
	curated("islr", "An Introduction to Statistical Learning",
		[]string{"Gareth James", "Daniela Witten", "Trevor Hastie", "Robert Tibshirani"},
		"Springer", "2021",
		"Statistical learning theory and practice, the standard machine learning introduction.",
		[]string{"Machine Learning", "Statistics", "Data Science"},
		"",
		"https://www.statlearning.com/s/ISLRv2_website.pdf",
		607, "machine learning", "statistics", "data science"),
	curated("sql-notes", "SQL Notes for Professionals",
		[]string{"GoalKicker.com"}, "GoalKicker.com", "2023",
		"A practical compilation of SQL notes.",
		[]string{"SQL", "Database", "Programming"},
		"https://goalkicker.com/SQLBook/SQLNotesForProfessionals.png",
		"https://goalkicker.com/SQLBook/SQLNotesForProfessionals.pdf",
		91, "sql", "database", "query"),
	curated("pride-prejudice", "Pride and Prejudice",
		[]string{"Jane Austen"}, "Project Gutenberg", "1813",
		"Jane Austen's classic novel of manners.",
		[]string{"Fiction", "Classic Literature", "Romance"},
		"",
		"https://www.gutenberg.org/files/1342/1342-pdf.pdf",
		400, "pride and prejudice", "jane austen", "classic", "fiction"),
	curated("sherlock-holmes", "The Adventures of Sherlock Holmes",
		[]string{"Arthur Conan Doyle"}, "Project Gutenberg", "1892",
		"Twelve short stories featuring the famous detective.",
		[]string{"Fiction", "Mystery", "Detective"},
		"",
		"https://www.gutenberg.org/files/1661/1661-pdf.pdf",
		307, "sherlock", "holmes", "mystery", "detective"),
	curated("origin-species", "On the Origin of Species",
		[]string{"Charles Darwin"}, "Project Gutenberg", "1859",
		"Darwin's theory of evolution, one of the most important works in biology.",
		[]string{"Science", "Biology", "Evolution"},
		"",
		"https://www.gutenberg.org/files/1228/1228-pdf.pdf",
		502, "darwin", "evolution", "biology", "science"),
	curated("wealth-of-nations", "The Wealth of Nations",
		[]string{"Adam Smith"}, "Project Gutenberg", "1776",
		"Adam Smith's foundational work of modern economics.",
		[]string{"Economics", "Classic", "Business"},
		"",
		"https://www.gutenberg.org/files/3300/3300-pdf.pdf",
		1200, "economics", "adam smith", "wealth"),
}

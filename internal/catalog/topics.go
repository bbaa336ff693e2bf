package catalog

// Topic is a suggested search shown on the discovery screen.
type Topic struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

// PopularTopics returns the static discovery list.
func PopularTopics() []Topic {
	return []Topic{
		{Name: "JavaScript", Query: "javascript programming"},
		{Name: "Python", Query: "python programming"},
		{Name: "Java", Query: "java programming"},
		{Name: "Rust", Query: "rust programming"},
		{Name: "Go", Query: "golang programming"},
		{Name: "TypeScript", Query: "typescript programming"},
		{Name: "Web Development", Query: "web development"},
		{Name: "React", Query: "react programming"},
		{Name: "Node.js", Query: "nodejs programming"},
		{Name: "Machine Learning", Query: "machine learning"},
		{Name: "Data Science", Query: "data science"},
		{Name: "Deep Learning", Query: "deep learning"},
		{Name: "DevOps", Query: "devops"},
		{Name: "Docker", Query: "docker containers"},
		{Name: "Kubernetes", Query: "kubernetes"},
		{Name: "Linux", Query: "linux administration"},
		{Name: "Algorithms", Query: "algorithms data structures"},
		{Name: "System Design", Query: "system design"},
		{Name: "Database", Query: "database design"},
		{Name: "Classic Literature", Query: "classic literature"},
		{Name: "Science Fiction", Query: "science fiction"},
		{Name: "Mystery", Query: "mystery detective"},
		{Name: "Philosophy", Query: "philosophy"},
		{Name: "History", Query: "history"},
		{Name: "Psychology", Query: "psychology"},
	}
}

// Publishers returns well-known technical publishers for faceted search.
func Publishers() []Topic {
	return []Topic{
		{Name: "O'Reilly Media", Query: "O'Reilly"},
		{Name: "Manning Publications", Query: "Manning"},
		{Name: "Packt Publishing", Query: "Packt"},
		{Name: "Apress", Query: "Apress"},
		{Name: "Pragmatic Bookshelf", Query: "Pragmatic"},
		{Name: "No Starch Press", Query: "No Starch"},
	}
}

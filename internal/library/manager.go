package library

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkawano/hondana/internal/entities"
)

var (
	// ErrInvalidBookType is returned when a book is added with a type other
	// than epub or pdf.
	ErrInvalidBookType = errors.New("invalid book type")

	// ErrMissingFilePath is returned when a book is added without a local
	// file path.
	ErrMissingFilePath = errors.New("file path is required")
)

// AddBookInput carries the caller-supplied fields for a new library entry.
// Authors and Author are normalized at construction; IsFree defaults to
// true when left nil.
type AddBookInput struct {
	FilePath      string
	FileName      string
	Type          entities.BookType
	Title         string
	Authors       []string
	Author        string
	Publisher     string
	Thumbnail     string
	DownloadLink  string
	IsFree        *bool
	PDFAvailable  bool
	EPUBAvailable bool
	Metadata      map[string]any
}

// Position is a partial reading position: only the fields present are
// applied on a progress update.
type Position struct {
	Chapter *int `json:"chapter,omitempty"`
	Page    *int `json:"page,omitempty"`
}

// MetadataUpdate holds the fields the enricher may fill in. Nil pointers
// leave the stored value untouched.
type MetadataUpdate struct {
	Publisher *string
	Thumbnail *string
	ISBN      *string
}

// Statistics are aggregate counts over the library, computed on demand.
type Statistics struct {
	TotalBooks       int `json:"totalBooks"`
	EPUBBooks        int `json:"epubBooks"`
	PDFBooks         int `json:"pdfBooks"`
	FavoriteBooks    int `json:"favoriteBooks"`
	CurrentlyReading int `json:"currentlyReading"`
	CompletedBooks   int `json:"completedBooks"`
	TotalBookmarks   int `json:"totalBookmarks"`
	TotalNotes       int `json:"totalNotes"`
}

// Manager is the sole owner of the in-memory book list. All mutations are
// serialized behind a mutex and committed to memory only after the store
// write succeeds, so the file and the list never diverge.
type Manager struct {
	store *Store

	mu           sync.RWMutex
	books        []entities.Book
	lastModified time.Time
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store, books: []entities.Book{}}
}

// Load populates the in-memory list from the store. A missing library file
// is treated as an empty library.
func (m *Manager) Load() error {
	lib, err := m.store.Load()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books = lib.Books
	m.lastModified = lib.LastModified
	return nil
}

// Library returns the current document with the timestamp of the last
// persisted save.
func (m *Manager) Library() entities.Library {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return entities.Library{Books: cloneBooks(m.books), LastModified: m.lastModified}
}

// AddBook validates and normalizes the input, allocates an id, appends the
// book and persists the document. The created book is returned.
func (m *Manager) AddBook(in AddBookInput) (entities.Book, error) {
	if !in.Type.Valid() {
		return entities.Book{}, ErrInvalidBookType
	}
	if in.FilePath == "" {
		return entities.Book{}, ErrMissingFilePath
	}

	authors, author := entities.NormalizeAuthors(in.Authors, in.Author)

	title := in.Title
	if title == "" {
		title = in.FileName
	}

	isFree := true
	if in.IsFree != nil {
		isFree = *in.IsFree
	}

	metadata := in.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	book := entities.Book{
		ID:            uuid.NewString(),
		FilePath:      in.FilePath,
		FileName:      in.FileName,
		Type:          in.Type,
		Title:         title,
		Author:        author,
		Authors:       authors,
		Publisher:     in.Publisher,
		AddedDate:     time.Now().UTC(),
		Progress:      0,
		Bookmarks:     []entities.Bookmark{},
		Notes:         []entities.Note{},
		IsFree:        isFree,
		PDFAvailable:  in.PDFAvailable,
		EPUBAvailable: in.EPUBAvailable,
		DownloadLink:  in.DownloadLink,
		Thumbnail:     in.Thumbnail,
		Metadata:      metadata,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	books := append(cloneBooks(m.books), book)
	if err := m.persist(books); err != nil {
		return entities.Book{}, err
	}
	return book, nil
}

// RemoveBook deletes a book by id. It reports whether a matching record was
// found; nothing is persisted when no removal occurred.
func (m *Manager) RemoveBook(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := indexOf(m.books, id)
	if idx < 0 {
		return false, nil
	}

	books := cloneBooks(m.books)
	books = append(books[:idx], books[idx+1:]...)
	if err := m.persist(books); err != nil {
		return false, err
	}
	return true, nil
}

// GetBook looks up a book by id.
func (m *Manager) GetBook(id string) (entities.Book, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := indexOf(m.books, id)
	if idx < 0 {
		return entities.Book{}, false
	}
	return cloneBook(m.books[idx]), true
}

// GetBookByPath looks up a book by its file path, the secondary lookup key.
func (m *Manager) GetBookByPath(filePath string) (entities.Book, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.books {
		if b.FilePath == filePath {
			return cloneBook(b), true
		}
	}
	return entities.Book{}, false
}

func (m *Manager) GetAllBooks() []entities.Book {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneBooks(m.books)
}

func (m *Manager) GetFavoriteBooks() []entities.Book {
	return m.filter(func(b entities.Book) bool { return b.Favorite })
}

// GetCurrentlyReading returns books with progress strictly between 0 and 100.
func (m *Manager) GetCurrentlyReading() []entities.Book {
	return m.filter(func(b entities.Book) bool { return b.Progress > 0 && b.Progress < 100 })
}

func (m *Manager) GetFreeBooks() []entities.Book {
	return m.filter(func(b entities.Book) bool { return b.IsFree })
}

func (m *Manager) FilterByType(t entities.BookType) []entities.Book {
	return m.filter(func(b entities.Book) bool { return b.Type == t })
}

// GetRecentBooks returns up to limit books sorted by last read date, newest
// first. Books never read are excluded.
func (m *Manager) GetRecentBooks(limit int) []entities.Book {
	books := m.filter(func(b entities.Book) bool { return b.LastReadDate != nil })
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].LastReadDate.After(*books[j].LastReadDate)
	})
	if limit > 0 && len(books) > limit {
		books = books[:limit]
	}
	return books
}

// UpdateProgress clamps progress to [0,100], stamps the last read date and
// applies whichever position fields are present. It reports whether the
// book exists.
func (m *Manager) UpdateProgress(id string, progress float64, pos Position) (bool, error) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return m.mutate(id, func(b *entities.Book) {
		now := time.Now().UTC()
		b.Progress = progress
		b.LastReadDate = &now
		if pos.Chapter != nil {
			b.CurrentChapter = pos.Chapter
		}
		if pos.Page != nil {
			b.CurrentPage = pos.Page
		}
	})
}

// ToggleFavorite flips the favorite flag and returns the new state. found
// is false when the id does not exist.
func (m *Manager) ToggleFavorite(id string) (favorite bool, found bool, err error) {
	found, err = m.mutate(id, func(b *entities.Book) {
		b.Favorite = !b.Favorite
		favorite = b.Favorite
	})
	return favorite, found, err
}

// AddBookmark appends a bookmark to a book. A nil bookmark means the book
// does not exist.
func (m *Manager) AddBookmark(id, position, note string) (*entities.Bookmark, error) {
	bm := entities.Bookmark{
		ID:          uuid.NewString(),
		Position:    position,
		Note:        note,
		CreatedDate: time.Now().UTC(),
	}
	found, err := m.mutate(id, func(b *entities.Book) {
		b.Bookmarks = append(b.Bookmarks, bm)
	})
	if err != nil || !found {
		return nil, err
	}
	return &bm, nil
}

// RemoveBookmark deletes a bookmark by id. Nothing is persisted when either
// the book or the bookmark is missing.
func (m *Manager) RemoveBookmark(id, bookmarkID string) (bool, error) {
	removed := false
	found, err := m.mutate(id, func(b *entities.Book) {
		for i, bm := range b.Bookmarks {
			if bm.ID == bookmarkID {
				b.Bookmarks = append(b.Bookmarks[:i], b.Bookmarks[i+1:]...)
				removed = true
				return
			}
		}
	})
	if err != nil || !found {
		return false, err
	}
	return removed, nil
}

// AddNote appends a note to a book. A nil note means the book does not exist.
func (m *Manager) AddNote(id, content, position string) (*entities.Note, error) {
	n := entities.Note{
		ID:          uuid.NewString(),
		Content:     content,
		Position:    position,
		CreatedDate: time.Now().UTC(),
	}
	found, err := m.mutate(id, func(b *entities.Book) {
		b.Notes = append(b.Notes, n)
	})
	if err != nil || !found {
		return nil, err
	}
	return &n, nil
}

func (m *Manager) RemoveNote(id, noteID string) (bool, error) {
	removed := false
	found, err := m.mutate(id, func(b *entities.Book) {
		for i, n := range b.Notes {
			if n.ID == noteID {
				b.Notes = append(b.Notes[:i], b.Notes[i+1:]...)
				removed = true
				return
			}
		}
	})
	if err != nil || !found {
		return false, err
	}
	return removed, nil
}

// UpdateBookMetadata applies enrichment fields to a book. ISBN lands in the
// free-form metadata map since it is not a first-class Book column.
func (m *Manager) UpdateBookMetadata(id string, update MetadataUpdate) (bool, error) {
	return m.mutate(id, func(b *entities.Book) {
		if update.Publisher != nil {
			b.Publisher = *update.Publisher
		}
		if update.Thumbnail != nil {
			b.Thumbnail = *update.Thumbnail
		}
		if update.ISBN != nil {
			if b.Metadata == nil {
				b.Metadata = map[string]any{}
			}
			b.Metadata["isbn"] = *update.ISBN
		}
	})
}

// IsBookFree reports whether the book exists and is marked free. Opening a
// non-free entry is not permitted.
func (m *Manager) IsBookFree(id string) bool {
	b, ok := m.GetBook(id)
	return ok && b.IsFree
}

// SearchBooks does a case-insensitive substring match against title, author
// and file name.
func (m *Manager) SearchBooks(query string) []entities.Book {
	q := strings.ToLower(query)
	return m.filter(func(b entities.Book) bool {
		return strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.FileName), q)
	})
}

// SortBooks returns a new ordering without mutating the stored list.
// Supported keys: title, author, addedDate, lastReadDate. Date keys treat
// absent dates as the epoch. Unknown keys fall back to addedDate.
func (m *Manager) SortBooks(by, order string) []entities.Book {
	books := m.GetAllBooks()

	less := func(a, b entities.Book) bool {
		switch by {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "author":
			return strings.ToLower(a.Author) < strings.ToLower(b.Author)
		case "lastReadDate":
			return timeOrEpoch(a.LastReadDate).Before(timeOrEpoch(b.LastReadDate))
		default:
			return a.AddedDate.Before(b.AddedDate)
		}
	}

	sort.SliceStable(books, func(i, j int) bool {
		if order == "asc" {
			return less(books[i], books[j])
		}
		return less(books[j], books[i])
	})
	return books
}

// GetStatistics computes aggregate counts over the current library.
func (m *Manager) GetStatistics() Statistics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Statistics{TotalBooks: len(m.books)}
	for _, b := range m.books {
		switch b.Type {
		case entities.BookTypeEPUB:
			stats.EPUBBooks++
		case entities.BookTypePDF:
			stats.PDFBooks++
		}
		if b.Favorite {
			stats.FavoriteBooks++
		}
		if b.Progress > 0 && b.Progress < 100 {
			stats.CurrentlyReading++
		}
		if b.Progress == 100 {
			stats.CompletedBooks++
		}
		stats.TotalBookmarks += len(b.Bookmarks)
		stats.TotalNotes += len(b.Notes)
	}
	return stats
}

// mutate clones the list, applies fn to the addressed book and persists.
// The in-memory list is swapped only after a successful save.
func (m *Manager) mutate(id string, fn func(*entities.Book)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := indexOf(m.books, id)
	if idx < 0 {
		return false, nil
	}

	books := cloneBooks(m.books)
	fn(&books[idx])
	if err := m.persist(books); err != nil {
		return false, err
	}
	return true, nil
}

// persist writes the candidate list and commits it in memory on success.
// Callers must hold the write lock.
func (m *Manager) persist(books []entities.Book) error {
	lib := entities.Library{Books: books}
	if err := m.store.Save(&lib); err != nil {
		return err
	}
	m.books = books
	m.lastModified = lib.LastModified
	return nil
}

func (m *Manager) filter(keep func(entities.Book) bool) []entities.Book {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []entities.Book{}
	for _, b := range m.books {
		if keep(b) {
			out = append(out, cloneBook(b))
		}
	}
	return out
}

func indexOf(books []entities.Book, id string) int {
	for i, b := range books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func timeOrEpoch(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func cloneBooks(books []entities.Book) []entities.Book {
	out := make([]entities.Book, len(books))
	for i, b := range books {
		out[i] = cloneBook(b)
	}
	return out
}

func cloneBook(b entities.Book) entities.Book {
	c := b
	c.Authors = append([]string(nil), b.Authors...)
	c.Bookmarks = append([]entities.Bookmark(nil), b.Bookmarks...)
	c.Notes = append([]entities.Note(nil), b.Notes...)
	if b.Metadata != nil {
		c.Metadata = make(map[string]any, len(b.Metadata))
		for k, v := range b.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

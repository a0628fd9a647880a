// Package memory provides in-memory implementations of the repository
// interfaces. Each store is an isolated instance with no shared globals,
// intended for tests that exercise service and handler semantics without a
// database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"lumenstudio/api/internal/apperr"
	"lumenstudio/api/internal/models"
	"lumenstudio/api/internal/repository"
)

// Store bundles one instance of every memory-backed store.
type Store struct {
	Users    *Users
	Posts    *Posts
	Comments *Comments
	Contacts *Contacts
}

func NewStore() *Store {
	return &Store{
		Users:    NewUsers(),
		Posts:    NewPosts(),
		Comments: NewComments(),
		Contacts: NewContacts(),
	}
}

// --- Users ---

type Users struct {
	mu    sync.RWMutex
	users map[string]models.User
}

var _ repository.UserStore = (*Users)(nil)

func NewUsers() *Users {
	return &Users{users: make(map[string]models.User)}
}

func (s *Users) Create(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperr.Conflict("email already registered")
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, apperr.NotFound("user not found")
}

func (s *Users) GetByID(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (s *Users) Update(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	for id, existing := range s.users {
		if id != user.ID && existing.Email == user.Email {
			return apperr.Conflict("email already registered")
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *Users) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(s.users, id)
	return nil
}

// --- Posts ---

type Posts struct {
	mu    sync.RWMutex
	posts map[string]models.BlogPost

	// seq preserves insertion order, the listing tiebreaker.
	seq     map[string]int
	nextSeq int
}

var _ repository.PostStore = (*Posts)(nil)

func NewPosts() *Posts {
	return &Posts{
		posts: make(map[string]models.BlogPost),
		seq:   make(map[string]int),
	}
}

func (s *Posts) Create(ctx context.Context, post models.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.posts {
		if existing.Slug == post.Slug {
			return apperr.Conflict("slug already in use")
		}
	}
	s.posts[post.ID] = post
	s.seq[post.ID] = s.nextSeq
	s.nextSeq++
	return nil
}

func (s *Posts) GetByID(ctx context.Context, id string) (models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return models.BlogPost{}, apperr.NotFound("blog post not found")
	}
	return post, nil
}

func (s *Posts) GetBySlug(ctx context.Context, slug string) (models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, post := range s.posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return models.BlogPost{}, apperr.NotFound("blog post not found")
}

func (s *Posts) Update(ctx context.Context, post models.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return apperr.NotFound("blog post not found")
	}
	for id, existing := range s.posts {
		if id != post.ID && existing.Slug == post.Slug {
			return apperr.Conflict("slug already in use")
		}
	}
	s.posts[post.ID] = post
	return nil
}

func (s *Posts) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return apperr.NotFound("blog post not found")
	}
	delete(s.posts, id)
	delete(s.seq, id)
	return nil
}

func (s *Posts) List(ctx context.Context, filter repository.PostFilter, page repository.PageRequest) ([]models.BlogPost, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page = page.Normalize()

	matched := s.sorted(func(post models.BlogPost) bool {
		return matchesFilter(post, filter)
	})

	total := len(matched)

	start := page.Offset()
	if start >= total {
		return []models.BlogPost{}, total, nil
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *Posts) Featured(ctx context.Context, limit int) ([]models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	featured := s.sorted(func(post models.BlogPost) bool {
		return post.IsFeatured && post.Status == models.PostStatusPublished
	})
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured, nil
}

func (s *Posts) Categories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.distinct(func(post models.BlogPost) []string { return post.Categories }), nil
}

func (s *Posts) Tags(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.distinct(func(post models.BlogPost) []string { return post.Tags }), nil
}

func (s *Posts) SlugExists(ctx context.Context, slug string, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, post := range s.posts {
		if id != excludeID && post.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *Posts) FeaturedImages(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	images := []string{}
	for _, post := range s.posts {
		if post.FeaturedImage == nil || *post.FeaturedImage == "" {
			continue
		}
		if _, dup := seen[*post.FeaturedImage]; dup {
			continue
		}
		seen[*post.FeaturedImage] = struct{}{}
		images = append(images, *post.FeaturedImage)
	}
	sort.Strings(images)
	return images, nil
}

func (s *Posts) sorted(keep func(models.BlogPost) bool) []models.BlogPost {
	posts := []models.BlogPost{}
	for _, post := range s.posts {
		if keep(post) {
			posts = append(posts, post)
		}
	}

	// Insertion order first, then a stable sort by effective date so equal
	// dates keep insertion order.
	sort.Slice(posts, func(i, j int) bool {
		return s.seq[posts[i].ID] < s.seq[posts[j].ID]
	})
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].EffectiveDate().After(posts[j].EffectiveDate())
	})
	return posts
}

func (s *Posts) distinct(pick func(models.BlogPost) []string) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, post := range s.posts {
		for _, v := range pick(post) {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

func matchesFilter(post models.BlogPost, filter repository.PostFilter) bool {
	if filter.Status != "" && post.Status != filter.Status {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		excerpt := ""
		if post.Excerpt != nil {
			excerpt = *post.Excerpt
		}
		if !strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(post.Content), needle) &&
			!strings.Contains(strings.ToLower(excerpt), needle) {
			return false
		}
	}
	if filter.Category != "" && !contains(post.Categories, filter.Category) {
		return false
	}
	if filter.Tag != "" && !contains(post.Tags, filter.Tag) {
		return false
	}
	return true
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// --- Comments ---

type Comments struct {
	mu       sync.RWMutex
	comments map[string]models.BlogComment
	seq      map[string]int
	nextSeq  int
}

var _ repository.CommentStore = (*Comments)(nil)

func NewComments() *Comments {
	return &Comments{
		comments: make(map[string]models.BlogComment),
		seq:      make(map[string]int),
	}
}

func (s *Comments) Create(ctx context.Context, comment models.BlogComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments[comment.ID] = comment
	s.seq[comment.ID] = s.nextSeq
	s.nextSeq++
	return nil
}

func (s *Comments) GetByID(ctx context.Context, id string) (models.BlogComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return models.BlogComment{}, apperr.NotFound("comment not found")
	}
	return comment, nil
}

func (s *Comments) ListByPost(ctx context.Context, postID string, status models.CommentStatus) ([]models.BlogComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := []models.BlogComment{}
	for _, comment := range s.comments {
		if comment.PostID != postID {
			continue
		}
		if status != "" && comment.Status != status {
			continue
		}
		comments = append(comments, comment)
	}

	sort.Slice(comments, func(i, j int) bool {
		return s.seq[comments[i].ID] > s.seq[comments[j].ID]
	})
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *Comments) UpdateStatus(ctx context.Context, id string, status models.CommentStatus) (models.BlogComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return models.BlogComment{}, apperr.NotFound("comment not found")
	}
	comment.Status = status
	s.comments[id] = comment
	return comment, nil
}

func (s *Comments) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return apperr.NotFound("comment not found")
	}
	delete(s.comments, id)
	delete(s.seq, id)
	return nil
}

// --- Contacts ---

type Contacts struct {
	mu       sync.RWMutex
	contacts []models.ContactSubmission
}

var _ repository.ContactStore = (*Contacts)(nil)

func NewContacts() *Contacts {
	return &Contacts{}
}

func (s *Contacts) Create(ctx context.Context, submission models.ContactSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts = append(s.contacts, submission)
	return nil
}

func (s *Contacts) List(ctx context.Context) ([]models.ContactSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first, mirroring the SQL ordering.
	out := make([]models.ContactSubmission, 0, len(s.contacts))
	for i := len(s.contacts) - 1; i >= 0; i-- {
		out = append(out, s.contacts[i])
	}
	return out, nil
}

package mock

import (
	"context"
	"sort"
	"sync"

	"soriblog/app/models"
	"soriblog/app/repositories"
)

// Store backs the in-memory repositories so posts can cascade into comments
// and rows can resolve their authors.
type Store struct {
	mutex    sync.RWMutex
	users    map[int]*models.User
	posts    map[int]*models.Post
	comments map[int]*models.Comment
	nextID   map[string]int
}

type UserRepository struct{ s *Store }
type PostRepository struct{ s *Store }
type CommentRepository struct{ s *Store }

func NewStore() *Store {
	s := &Store{}
	s.Clear()
	return s
}

func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.users = make(map[int]*models.User)
	s.posts = make(map[int]*models.Post)
	s.comments = make(map[int]*models.Comment)
	s.nextID = map[string]int{"users": 1, "posts": 1, "comments": 1}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s} }
func (s *Store) Posts() *PostRepository       { return &PostRepository{s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s} }

func (s *Store) next(table string) int {
	id := s.nextID[table]
	s.nextID[table]++
	return id
}

func (s *Store) author(id int) *models.User {
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

// UserRepository implementation
func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	for _, u := range m.s.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = m.s.next("users")
	cp := *user
	m.s.users[user.ID] = &cp
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	user, exists := m.s.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	for _, u := range m.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) Count(ctx context.Context) (int64, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	return int64(len(m.s.users)), nil
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if m.titleTaken(post.Title, 0) {
		return repositories.ErrDuplicate
	}
	post.ID = m.s.next("posts")
	m.s.posts[post.ID] = m.stored(post)
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	post, exists := m.s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return m.loaded(post), nil
}

func (m *PostRepository) GetByTitle(ctx context.Context, title string) (*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	for _, p := range m.s.posts {
		if p.Title == title {
			return m.loaded(p), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(m.s.posts))
	for _, p := range m.s.posts {
		posts = append(posts, m.loaded(p))
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	if m.titleTaken(post.Title, post.ID) {
		return repositories.ErrDuplicate
	}
	m.s.posts[post.ID] = m.stored(post)
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	for id, c := range m.s.comments {
		if c.PostID == post.ID {
			delete(m.s.comments, id)
		}
	}
	delete(m.s.posts, post.ID)
	return nil
}

func (m *PostRepository) titleTaken(title string, except int) bool {
	for id, p := range m.s.posts {
		if id != except && p.Title == title {
			return true
		}
	}
	return false
}

func (m *PostRepository) stored(post *models.Post) *models.Post {
	cp := *post
	cp.Author = nil
	cp.Comments = nil
	return &cp
}

func (m *PostRepository) loaded(post *models.Post) *models.Post {
	cp := *post
	cp.Author = m.s.author(post.AuthorID)
	return &cp
}

// CommentRepository implementation
func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()

	if _, exists := m.s.posts[comment.PostID]; !exists {
		return repositories.ErrNotFound
	}
	comment.ID = m.s.next("comments")
	cp := *comment
	cp.Author = nil
	m.s.comments[comment.ID] = &cp
	return nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	var comments []*models.Comment
	for _, c := range m.s.comments {
		if c.PostID == postID {
			cp := *c
			cp.Author = m.s.author(c.AuthorID)
			comments = append(comments, &cp)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *CommentRepository) CountByPost(ctx context.Context, postID int) (int64, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	var n int64
	for _, c := range m.s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

var (
	_ repositories.UserRepository    = (*UserRepository)(nil)
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
)

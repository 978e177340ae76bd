package identity

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a dev/test fallback used when no database is configured.
// It implements the full Store contract with the same error taxonomy as the
// Postgres store.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*User
	// byEmail indexes normalized email -> user id.
	byEmail map[string]int64
}

// NewMemoryStore constructs an empty in-memory Store implementation.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[int64]*User),
		byEmail: make(map[string]int64),
	}
}

// Close closes the store (noop for in-memory).
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "name and email are required"}
	}
	if in.PasswordHash == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password hash is required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	norm := NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[norm]; exists {
		return User{}, ConflictError{Op: op, Field: "email"}
	}

	s.nextID++
	u := &User{
		ID:           s.nextID,
		Name:         name,
		Email:        email,
		EmailNorm:    norm,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	s.byEmail[norm] = u.ID

	return cloneUser(u), nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id int64) (User, error) {
	const op = "identity.GetUserByID"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const op = "identity.GetUserByEmail"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	return cloneUser(s.users[id]), nil
}

func (s *MemoryStore) GetUserByRefreshToken(ctx context.Context, token string) (User, error) {
	const op = "identity.GetUserByRefreshToken"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(token) == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty token"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			return cloneUser(u), nil
		}
	}
	return User{}, NotFoundError{Op: op, Resource: "session"}
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (User, error) {
	const op = "identity.UpdateUser"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "name and email are required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	norm := NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}

	if other, exists := s.byEmail[norm]; exists && other != id {
		return User{}, ConflictError{Op: op, Field: "email"}
	}

	delete(s.byEmail, u.EmailNorm)
	u.Name = name
	u.Email = email
	u.EmailNorm = norm
	if in.PasswordHash != nil {
		u.PasswordHash = *in.PasswordHash
	}
	u.UpdatedAt = now
	s.byEmail[norm] = id

	return cloneUser(u), nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id int64) error {
	const op = "identity.DeleteUser"

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return NotFoundError{Op: op, Resource: "user"}
	}
	delete(s.byEmail, u.EmailNorm)
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) SetRefreshToken(ctx context.Context, id int64, token string, now time.Time) error {
	const op = "identity.SetRefreshToken"

	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty token"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return NotFoundError{Op: op, Resource: "user"}
	}
	u.RefreshToken = &token
	u.UpdatedAt = now
	return nil
}

func (s *MemoryStore) ClearRefreshToken(ctx context.Context, id int64, now time.Time) error {
	const op = "identity.ClearRefreshToken"

	if err := ctx.Err(); err != nil {
		return err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return NotFoundError{Op: op, Resource: "user"}
	}
	u.RefreshToken = nil
	u.UpdatedAt = now
	return nil
}

// cloneUser returns a defensive copy so callers cannot mutate store state.
func cloneUser(u *User) User {
	out := *u
	if u.RefreshToken != nil {
		tok := *u.RefreshToken
		out.RefreshToken = &tok
	}
	return out
}

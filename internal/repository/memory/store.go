// Package memory provides an in-process implementation of the service
// repositories. It backs the server when no database is configured and is
// used by tests that need real list semantics without PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/models"
	"github.com/atinyakov/listkeeper/internal/service"
)

type linkKey struct {
	userID int64
	listID int64
}

// state is one consistent snapshot of every table.
type state struct {
	users map[int64]models.User
	lists map[int64]models.List
	items map[int64]models.Item
	links map[linkKey]models.UserListLink

	nextUserID int64
	nextListID int64
	nextItemID int64
	nextLinkID int64
}

func newState() *state {
	return &state{
		users: make(map[int64]models.User),
		lists: make(map[int64]models.List),
		items: make(map[int64]models.Item),
		links: make(map[linkKey]models.UserListLink),
	}
}

func (s *state) clone() *state {
	c := *s
	c.users = make(map[int64]models.User, len(s.users))
	for k, v := range s.users {
		c.users[k] = v
	}
	c.lists = make(map[int64]models.List, len(s.lists))
	for k, v := range s.lists {
		c.lists[k] = v
	}
	c.items = make(map[int64]models.Item, len(s.items))
	for k, v := range s.items {
		c.items[k] = v
	}
	c.links = make(map[linkKey]models.UserListLink, len(s.links))
	for k, v := range s.links {
		c.links[k] = v
	}
	return &c
}

// Store keeps all data in memory. Units of work are serialized; each one
// operates on a copy that replaces the committed state only when it succeeds.
type Store struct {
	mu    sync.Mutex
	data  *state
	today func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		data:  newState(),
		today: func() time.Time { return time.Now().UTC().Truncate(24 * time.Hour) },
	}
}

// Do runs fn against a private copy of the data and commits the copy if fn
// returns nil. A panic in fn leaves the committed data untouched.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos service.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	if err := fn(ctx, s.bind(tx)); err != nil {
		return err
	}
	s.data = tx
	return nil
}

// CurrentSessionID returns the committed session id of userID.
func (s *Store) CurrentSessionID(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.data.users[userID]
	if !ok {
		return "", common.ErrUserNotFound
	}
	return u.SessionID, nil
}

func (s *Store) bind(tx *state) service.Repositories {
	return service.Repositories{
		Users: &userRepo{tx},
		Lists: &listRepo{st: tx, today: s.today},
		Items: &itemRepo{tx},
		Links: &linkRepo{tx},
	}
}

type userRepo struct{ st *state }

func (r *userRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	for _, existing := range r.st.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, common.ErrUserExists
		}
	}
	r.st.nextUserID++
	created := *u
	created.ID = r.st.nextUserID
	r.st.users[created.ID] = created
	return &created, nil
}

func (r *userRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.st.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (r *userRepo) FindByUsernameOrEmail(_ context.Context, login string) (*models.User, error) {
	for _, u := range r.st.users {
		if u.Username == login || u.Email == login {
			return &u, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (r *userRepo) update(id int64, fn func(u *models.User)) error {
	u, ok := r.st.users[id]
	if !ok {
		return common.ErrUserNotFound
	}
	fn(&u)
	r.st.users[id] = u
	return nil
}

func (r *userRepo) SetSessionID(_ context.Context, id int64, sessionID string) error {
	return r.update(id, func(u *models.User) { u.SessionID = sessionID })
}

func (r *userRepo) UpdateDisplayName(_ context.Context, id int64, displayName string) error {
	return r.update(id, func(u *models.User) { u.DisplayName = displayName })
}

func (r *userRepo) UpdatePassword(_ context.Context, id int64, passwordHash, sessionID string) error {
	return r.update(id, func(u *models.User) {
		u.PasswordHash = passwordHash
		u.SessionID = sessionID
	})
}

type listRepo struct {
	st    *state
	today func() time.Time
}

func (r *listRepo) Create(_ context.Context, req models.ListRequest) (*models.List, error) {
	r.st.nextListID++
	l := models.List{
		ID:          r.st.nextListID,
		Name:        req.Name,
		Description: req.Description,
		DateCreated: r.today(),
	}
	r.st.lists[l.ID] = l
	return &l, nil
}

func (r *listRepo) FindByID(_ context.Context, id int64) (*models.List, error) {
	l, ok := r.st.lists[id]
	if !ok {
		return nil, common.ErrListNotFound
	}
	return &l, nil
}

func (r *listRepo) FindForUser(_ context.Context, userID int64) ([]models.List, error) {
	lists := make([]models.List, 0)
	for key := range r.st.links {
		if key.userID != userID {
			continue
		}
		if l, ok := r.st.lists[key.listID]; ok {
			lists = append(lists, l)
		}
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })
	return lists, nil
}

// Delete removes the list and, like the foreign keys in PostgreSQL, cascades
// to its items and links.
func (r *listRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.st.lists[id]; !ok {
		return common.ErrListNotFound
	}
	delete(r.st.lists, id)
	for itemID, it := range r.st.items {
		if it.ListID == id {
			delete(r.st.items, itemID)
		}
	}
	for key := range r.st.links {
		if key.listID == id {
			delete(r.st.links, key)
		}
	}
	return nil
}

type itemRepo struct{ st *state }

func (r *itemRepo) Create(_ context.Context, listID int64, req models.ItemRequest) (*models.Item, error) {
	if _, ok := r.st.lists[listID]; !ok {
		return nil, common.ErrListNotFound
	}
	r.st.nextItemID++
	it := models.Item{
		ID:          r.st.nextItemID,
		ListID:      listID,
		Description: req.Description,
		Finished:    req.Finished,
	}
	r.st.items[it.ID] = it
	return &it, nil
}

func (r *itemRepo) FindForList(_ context.Context, listID int64) ([]models.Item, error) {
	items := make([]models.Item, 0)
	for _, it := range r.st.items {
		if it.ListID == listID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *itemRepo) OwnedByList(_ context.Context, itemID, listID int64) (bool, error) {
	it, ok := r.st.items[itemID]
	return ok && it.ListID == listID, nil
}

func (r *itemRepo) Update(_ context.Context, itemID int64, req models.ItemRequest) error {
	it, ok := r.st.items[itemID]
	if !ok {
		return nil
	}
	it.Description = req.Description
	it.Finished = req.Finished
	r.st.items[itemID] = it
	return nil
}

func (r *itemRepo) Delete(_ context.Context, itemID int64) error {
	delete(r.st.items, itemID)
	return nil
}

func (r *itemRepo) DeleteForList(_ context.Context, listID int64) error {
	for id, it := range r.st.items {
		if it.ListID == listID {
			delete(r.st.items, id)
		}
	}
	return nil
}

type linkRepo struct{ st *state }

func (r *linkRepo) IsOwner(_ context.Context, listID, userID int64) (bool, error) {
	l, ok := r.st.links[linkKey{userID: userID, listID: listID}]
	return ok && l.IsOwner, nil
}

func (r *linkRepo) HasAccess(_ context.Context, listID, userID int64) (bool, error) {
	_, ok := r.st.links[linkKey{userID: userID, listID: listID}]
	return ok, nil
}

func (r *linkRepo) Link(_ context.Context, listID, userID int64, isOwner bool) error {
	if _, ok := r.st.users[userID]; !ok {
		return common.ErrUserNotFound
	}
	if _, ok := r.st.lists[listID]; !ok {
		return common.ErrListNotFound
	}
	key := linkKey{userID: userID, listID: listID}
	if _, ok := r.st.links[key]; ok {
		return common.ErrAlreadyLinked
	}
	r.st.nextLinkID++
	r.st.links[key] = models.UserListLink{ID: r.st.nextLinkID, UserID: userID, ListID: listID, IsOwner: isOwner}
	return nil
}

func (r *linkRepo) UnlinkAllForList(_ context.Context, listID int64) error {
	for key := range r.st.links {
		if key.listID == listID {
			delete(r.st.links, key)
		}
	}
	return nil
}

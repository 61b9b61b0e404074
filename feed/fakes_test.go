package feed

import (
	"context"
	"io"
	"mime/multipart"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/hoa-backoffice-go/models"
)

// fakeData is the committed document state. Transactions work on a clone
// and replace it on commit, so an aborted attempt leaves nothing behind.
type fakeData struct {
	posts     map[primitive.ObjectID]models.Post
	reactions map[string]models.Reaction // postHex|userID
	comments  []models.Comment
}

func reactionKey(postID primitive.ObjectID, userID string) string {
	return postID.Hex() + "|" + userID
}

func (d fakeData) clone() fakeData {
	out := fakeData{
		posts:     make(map[primitive.ObjectID]models.Post, len(d.posts)),
		reactions: make(map[string]models.Reaction, len(d.reactions)),
		comments:  append([]models.Comment(nil), d.comments...),
	}
	for k, v := range d.posts {
		out.posts[k] = v
	}
	for k, v := range d.reactions {
		out.reactions[k] = v
	}
	return out
}

// fakeStore implements Store in memory. Setting conflictRetries simulates
// the document store aborting that many attempts on write conflict: each
// attempt re-executes the callback from a fresh snapshot of committed
// state, and only the last one commits.
type fakeStore struct {
	data            fakeData
	admins          map[string]models.Admin
	members         map[string]models.Member
	conflictRetries int
	txAttempts      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: fakeData{
			posts:     make(map[primitive.ObjectID]models.Post),
			reactions: make(map[string]models.Reaction),
		},
		admins:  make(map[string]models.Admin),
		members: make(map[string]models.Member),
	}
}

func (f *fakeStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	attempts := 1 + f.conflictRetries
	f.conflictRetries = 0

	var committed fakeData
	for i := 0; i < attempts; i++ {
		work := f.data.clone()
		if err := fn(ctx, &fakeTx{data: &work}); err != nil {
			return err
		}
		f.txAttempts++
		committed = work
	}
	f.data = committed
	return nil
}

func (f *fakeStore) GetPost(_ context.Context, postID primitive.ObjectID) (*models.Post, error) {
	if p, ok := f.data.posts[postID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeStore) InsertPost(_ context.Context, p *models.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.data.posts[p.ID] = *p
	return nil
}

func (f *fakeStore) UpdatePostFields(_ context.Context, postID primitive.ObjectID, content, category *string, pinned *bool) error {
	p := f.data.posts[postID]
	if content != nil {
		p.Content = *content
	}
	if category != nil {
		p.Category = *category
	}
	if pinned != nil {
		p.Pinned = *pinned
	}
	f.data.posts[postID] = p
	return nil
}

func (f *fakeStore) ListPosts(_ context.Context, category string) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.data.posts {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) ListComments(_ context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range f.data.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) FindAdminByUID(_ context.Context, uid string) (*models.Admin, error) {
	if a, ok := f.admins[uid]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeStore) FindMemberByUID(_ context.Context, uid string) (*models.Member, error) {
	if m, ok := f.members[uid]; ok {
		return &m, nil
	}
	return nil, nil
}

// fakeTx mutates the working copy only.
type fakeTx struct {
	data *fakeData
}

func (t *fakeTx) GetPost(_ context.Context, postID primitive.ObjectID) (*models.Post, error) {
	if p, ok := t.data.posts[postID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (t *fakeTx) FindReaction(_ context.Context, postID primitive.ObjectID, userID string) (*models.Reaction, error) {
	if r, ok := t.data.reactions[reactionKey(postID, userID)]; ok {
		return &r, nil
	}
	return nil, nil
}

func (t *fakeTx) InsertReaction(_ context.Context, r *models.Reaction) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	t.data.reactions[reactionKey(r.PostID, r.UserID)] = *r
	return nil
}

func (t *fakeTx) DeleteReaction(_ context.Context, postID primitive.ObjectID, userID string) error {
	delete(t.data.reactions, reactionKey(postID, userID))
	return nil
}

func (t *fakeTx) InsertComment(_ context.Context, c *models.Comment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	t.data.comments = append(t.data.comments, *c)
	return nil
}

func (t *fakeTx) IncrementCounts(_ context.Context, postID primitive.ObjectID, reactsDelta, commentsDelta int) error {
	p := t.data.posts[postID]
	p.ReactsCount += reactsDelta
	p.CommentsCount += commentsDelta
	t.data.posts[postID] = p
	return nil
}

func (t *fakeTx) DeletePostTree(_ context.Context, postID primitive.ObjectID) error {
	kept := t.data.comments[:0]
	for _, c := range t.data.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	t.data.comments = kept
	for key, r := range t.data.reactions {
		if r.PostID == postID {
			delete(t.data.reactions, key)
		}
	}
	delete(t.data.posts, postID)
	return nil
}

// fakeMedia records uploads and deletes; deletes can be told to fail.
type fakeMedia struct {
	uploadURL string
	deleteErr error
	deleted   []string
}

func (f *fakeMedia) UploadPostMedia(string, string, multipart.File, *multipart.FileHeader) (string, error) {
	return f.uploadURL, nil
}

func (f *fakeMedia) Delete(blobURL string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, blobURL)
	return nil
}

// nopFile satisfies multipart.File for upload-path tests.
type nopFile struct{}

func (nopFile) Read([]byte) (int, error)          { return 0, io.EOF }
func (nopFile) ReadAt([]byte, int64) (int, error) { return 0, io.EOF }
func (nopFile) Seek(int64, int) (int64, error)    { return 0, nil }
func (nopFile) Close() error                      { return nil }

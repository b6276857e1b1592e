package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/auth"
	"beyondnp-backend/internal/database"
	"beyondnp-backend/internal/testutil"
)

// fakeClock advances one second on every reading so that successive writes
// get distinct, ordered timestamps.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	mem          *testutil.Memory
	st           Stores
	mail         *testutil.RecordingMailer
	clock        *fakeClock
	tokens       *auth.JWT
	users        *UserService
	collections  *CollectionService
	notes        *NoteService
	documents    *DocumentService
	universities *UniversityService
	dashboard    *DashboardService
}

func memoryStores(mem *testutil.Memory) Stores {
	return Stores{
		Users:        mem.Users(),
		Collections:  mem.Collections(),
		Notes:        mem.Notes(),
		Documents:    mem.Documents(),
		Universities: mem.Universities(),
		Tx:           database.Direct{},
	}
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := testutil.NewMemory()
	env := &testEnv{
		mem:    mem,
		st:     memoryStores(mem),
		mail:   &testutil.RecordingMailer{},
		clock:  &fakeClock{t: time.Now()},
		tokens: auth.NewJWT("test-secret-test-secret", 30*24*time.Hour),
	}
	env.users = NewUserService(env.st, env.tokens, env.mail, UserOptions{CodeTTL: 10 * time.Minute, MailTimeout: time.Second})
	env.users.now = env.clock.Now
	env.collections = NewCollectionService(env.st)
	env.collections.now = env.clock.Now
	env.notes = NewNoteService(env.st)
	env.notes.now = env.clock.Now
	env.documents = NewDocumentService(env.st)
	env.documents.now = env.clock.Now
	env.universities = NewUniversityService(env.st)
	env.dashboard = NewDashboardService(env.st)
	return env
}

// register creates an account and returns the code that was mailed to it.
func (e *testEnv) register(t *testing.T, name, email, password string) (bson.ObjectID, string) {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	e.users.Wait()
	sent, ok := e.mail.Last("verification", u.Email)
	require.True(t, ok, "verification email sent")
	return u.ID, sent.Code
}

// verifiedUser registers and verifies an account.
func (e *testEnv) verifiedUser(t *testing.T, email string) bson.ObjectID {
	t.Helper()
	id, code := e.register(t, "Test User", email, "secret123")
	_, err := e.users.VerifyEmail(context.Background(), email, code)
	require.NoError(t, err)
	e.users.Wait()
	return id
}

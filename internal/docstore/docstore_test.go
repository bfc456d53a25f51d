package docstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type record struct {
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Score *int     `json:"score"`
}

// StoreTestSuite runs the same contract against every backend.
type StoreTestSuite struct {
	suite.Suite
	open  func(t *testing.T) Store
	store Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.open(s.T())
}

func (s *StoreTestSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *StoreTestSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, KeyPortfolio)
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreTestSuite) TestPutGet() {
	s.Require().NoError(s.store.Put(s.ctx, KeyAdmin, []byte(`{"a":1}`)))

	data, err := s.store.Get(s.ctx, KeyAdmin)
	s.Require().NoError(err)
	s.JSONEq(`{"a":1}`, string(data))

	_, err = s.store.Get(s.ctx, KeyPortfolio)
	s.ErrorIs(err, ErrNotFound, "keys must not leak into each other")
}

func (s *StoreTestSuite) TestPutReplaces() {
	s.Require().NoError(s.store.Put(s.ctx, KeyPortfolio, []byte(`{"version":1,"extra":true}`)))
	s.Require().NoError(s.store.Put(s.ctx, KeyPortfolio, []byte(`{"version":2}`)))

	data, err := s.store.Get(s.ctx, KeyPortfolio)
	s.Require().NoError(err)
	s.JSONEq(`{"version":2}`, string(data))
}

func (s *StoreTestSuite) TestLoadDefault() {
	def := record{Name: "default"}
	got, err := Load(s.ctx, s.store, KeyPortfolio, def)
	s.Require().NoError(err)
	s.Equal(def, got)
}

func (s *StoreTestSuite) TestSaveLoadRoundTrip() {
	score := 7
	in := record{Name: "x", Tags: []string{"a", "b"}, Score: &score}
	s.Require().NoError(Save(s.ctx, s.store, KeyPortfolio, in))

	out, err := Load(s.ctx, s.store, KeyPortfolio, record{})
	s.Require().NoError(err)
	s.Equal(in, out)

	again, err := Load(s.ctx, s.store, KeyPortfolio, record{})
	s.Require().NoError(err)
	s.Equal(out, again)
}

func (s *StoreTestSuite) TestLoadCorrupt() {
	s.Require().NoError(s.store.Put(s.ctx, KeyPortfolio, []byte(`{"name":`)))

	def := record{Name: "default"}
	got, err := Load(s.ctx, s.store, KeyPortfolio, def)
	s.Error(err)
	s.Contains(err.Error(), "failed to decode portfolio document")
	s.Equal(def, got)
}

func TestFileStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{open: func(t *testing.T) Store {
		s, err := NewFileStore(filepath.Join(t.TempDir(), "data"))
		require.NoError(t, err)
		return s
	}})
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{open: func(t *testing.T) Store {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "vitrine.db"))
		require.NoError(t, err)
		return s
	}})
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Save(ctx, s, KeyPortfolio, record{Name: "p"}))
	require.NoError(t, Save(ctx, s, KeyAdmin, record{Name: "a"}))

	assert.FileExists(t, filepath.Join(dir, "portfolio.json"))
	assert.FileExists(t, filepath.Join(dir, "admin.json"))

	raw, err := os.ReadFile(filepath.Join(dir, "portfolio.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"name\": \"p\"", "documents are stored as indented JSON")
}

func TestFileStore_InterruptedWrite(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	before := record{Name: "before", Tags: []string{"kept"}}
	require.NoError(t, Save(ctx, s, KeyPortfolio, before))

	// A writer that died after writing its temp file but before the rename.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portfolio.json.tmp4711"), []byte(`{"name":"aft`), 0o600))

	got, err := Load(ctx, s, KeyPortfolio, record{})
	require.NoError(t, err)
	assert.Equal(t, before, got)
}

func TestFileStore_InvalidKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	for _, key := range []Key{"", "../etc/passwd", "a/b", "x.json"} {
		assert.Error(t, s.Put(ctx, key, []byte("{}")), "key %q", key)
		_, err := s.Get(ctx, key)
		assert.Error(t, err, "key %q", key)
		assert.NotErrorIs(t, err, ErrNotFound, "key %q", key)
	}
}

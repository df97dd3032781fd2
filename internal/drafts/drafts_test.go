package drafts

import (
	"path/filepath"
	"testing"

	"github.com/inovacc/repodeck/internal/model"
	"github.com/inovacc/repodeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, store.KV) {
	t.Helper()

	kv, err := store.NewBolt(filepath.Join(t.TempDir(), "drafts.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	return NewStore(kv, nil), kv
}

func draft(name string) model.Repository {
	return model.Repository{Name: name}
}

func remote(name, owner string) model.Repository {
	return model.Repository{Name: name, Owner: &owner}
}

func names(list []model.Repository) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.Name)
	}

	return out
}

func TestLoad_Empty(t *testing.T) {
	s, _ := setupStore(t)

	got := s.Load()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{{{"},
		{name: "object", data: `{"name":"demo"}`},
		{name: "null", data: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, kv := setupStore(t)
			require.NoError(t, kv.Put(store.BucketDrafts, Key, []byte(tt.data)))

			got := s.Load()
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestAdd_Prepends(t *testing.T) {
	s, kv := setupStore(t)

	require.NoError(t, s.Add(draft("first")))
	require.NoError(t, s.Add(draft("second")))

	assert.Equal(t, []string{"second", "first"}, names(s.Load()))

	raw, err := kv.Get(store.BucketDrafts, Key)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"name":"second","description":null,"imageUrl":null,"owner":null,"language":null,"stars":0},
		  {"name":"first","description":null,"imageUrl":null,"owner":null,"language":null,"stars":0}]`,
		string(raw))
}

func TestAdd_ReplacesCorruptData(t *testing.T) {
	s, kv := setupStore(t)
	require.NoError(t, kv.Put(store.BucketDrafts, Key, []byte("garbage")))

	require.NoError(t, s.Add(draft("demo")))
	assert.Equal(t, []string{"demo"}, names(s.Load()))
}

func TestUpdate(t *testing.T) {
	s, _ := setupStore(t)
	require.NoError(t, s.Add(draft("other")))
	require.NoError(t, s.Add(draft("demo")))

	desc := "described"
	newName := "renamed"
	private := true

	ok, err := s.Update("demo", model.EditRequest{Name: &newName, Description: &desc, Private: &private})
	require.NoError(t, err)
	assert.True(t, ok)

	got := s.Load()
	require.Len(t, got, 2)
	assert.Equal(t, "renamed", got[0].Name)
	assert.Equal(t, "described", model.StringValue(got[0].Description))
	assert.True(t, got[0].Private)
	assert.Equal(t, "other", got[1].Name)
}

func TestUpdate_ClearsDescription(t *testing.T) {
	s, _ := setupStore(t)

	desc := "old"
	require.NoError(t, s.Add(model.Repository{Name: "demo", Description: &desc}))

	empty := ""
	ok, err := s.Update("demo", model.EditRequest{Description: &empty})
	require.NoError(t, err)
	assert.True(t, ok)

	got, found := s.Find("demo")
	require.True(t, found)
	assert.Nil(t, got.Description)
}

func TestUpdate_Absent(t *testing.T) {
	s, kv := setupStore(t)

	desc := "x"
	ok, err := s.Update("missing", model.EditRequest{Description: &desc})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = kv.Get(store.BucketDrafts, Key)
	assert.ErrorIs(t, err, store.ErrNotFound, "nothing is written for a missing record")
}

func TestUpdate_CaseSensitive(t *testing.T) {
	s, _ := setupStore(t)
	require.NoError(t, s.Add(draft("Demo")))

	desc := "x"
	ok, err := s.Update("demo", model.EditRequest{Description: &desc})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	s, _ := setupStore(t)
	require.NoError(t, s.Add(draft("a")))
	require.NoError(t, s.Add(draft("b")))

	ok, err := s.Remove("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, names(s.Load()))

	ok, err = s.Remove("a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, names(s.Load()))
}

func TestReplace(t *testing.T) {
	s, _ := setupStore(t)
	require.NoError(t, s.Add(remote("target", "alice")))
	require.NoError(t, s.Add(draft("demo")))
	require.NoError(t, s.Add(remote("keep", "alice")))

	ok, err := s.Replace("demo", remote("target", "alice"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"keep", "target"}, names(s.Load()))

	rec, found := s.Find("target")
	require.True(t, found)
	assert.Equal(t, "alice", model.StringValue(rec.Owner))

	ok, err = s.Replace("missing", draft("x"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"keep", "target"}, names(s.Load()))
}

func TestPrune(t *testing.T) {
	s, _ := setupStore(t)
	require.NoError(t, s.Add(draft("pending")))
	require.NoError(t, s.Add(draft("demo-repo")))

	n, err := s.Prune([]model.Repository{remote("demo-repo", "alice"), remote("unrelated", "alice")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"pending"}, names(s.Load()))

	n, err = s.Prune(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		saved  []model.Repository
		remote []model.Repository
		want   []string
	}{
		{
			name: "both empty",
			want: []string{},
		},
		{
			name:  "drafts precede remotes",
			saved: []model.Repository{draft("d1"), draft("d2")},
			remote: []model.Repository{
				remote("r1", "alice"),
				remote("r2", "alice"),
			},
			want: []string{"d1", "d2", "r1", "r2"},
		},
		{
			name:   "draft shadows same-named remote",
			saved:  []model.Repository{draft("demo")},
			remote: []model.Repository{remote("x", "alice"), remote("demo", "alice")},
			want:   []string{"demo", "x"},
		},
		{
			name:   "names differing in case are distinct",
			saved:  []model.Repository{draft("Demo")},
			remote: []model.Repository{remote("demo", "alice")},
			want:   []string{"Demo", "demo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.saved, tt.remote)
			assert.Equal(t, tt.want, names(got))

			again := Merge(tt.saved, got)
			assert.Equal(t, got, again, "merge is idempotent")
		})
	}
}

func TestMerge_DemoRepoScenario(t *testing.T) {
	saved := []model.Repository{draft("demo-repo")}
	remotes := []model.Repository{remote("demo-repo", "alice")}

	got := Merge(saved, remotes)

	require.Len(t, got, 1)
	assert.Equal(t, "demo-repo", got[0].Name)
	assert.Nil(t, got[0].Owner, "the local draft wins")
}
